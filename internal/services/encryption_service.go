package services

import (
	"mealcheckin/internal/crypto"
	"mealcheckin/internal/models"
)

// EncryptionService applies field encryption to the domain records that
// carry free text. A nil *EncryptionService is valid and leaves everything
// in plaintext, for deployments without keys configured.
type EncryptionService struct {
	cipher *crypto.Cipher
}

// NewEncryptionService wires the cipher with domain-specific methods.
func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	c, err := crypto.NewCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

func (s *EncryptionService) enabled() bool { return s != nil }

// EncryptEntry encrypts the free-text fields of a meal entry in place.
func (s *EncryptionService) EncryptEntry(e *models.MealEntry) error {
	if !s.enabled() {
		return nil
	}
	var err error
	if e.FoodDescription, err = s.cipher.Encrypt(e.FoodDescription); err != nil {
		return err
	}
	if e.Notes, err = s.cipher.Encrypt(e.Notes); err != nil {
		return err
	}
	if e.CompletionNotes, err = s.cipher.Encrypt(e.CompletionNotes); err != nil {
		return err
	}
	return nil
}

// DecryptEntry reverses EncryptEntry.
func (s *EncryptionService) DecryptEntry(e *models.MealEntry) error {
	if !s.enabled() {
		return nil
	}
	var err error
	if e.FoodDescription, err = s.cipher.Decrypt(e.FoodDescription); err != nil {
		return err
	}
	if e.Notes, err = s.cipher.Decrypt(e.Notes); err != nil {
		return err
	}
	if e.CompletionNotes, err = s.cipher.Decrypt(e.CompletionNotes); err != nil {
		return err
	}
	return nil
}

// EncryptGoalSet encrypts the free-text custom intentions in place. The
// catalog picks are public strings and stay as they are.
func (s *EncryptionService) EncryptGoalSet(set *models.GoalSet) error {
	if !s.enabled() {
		return nil
	}
	for i, text := range set.Custom {
		enc, err := s.cipher.Encrypt(text)
		if err != nil {
			return err
		}
		set.Custom[i] = enc
	}
	return nil
}

// DecryptGoalSet reverses EncryptGoalSet.
func (s *EncryptionService) DecryptGoalSet(set *models.GoalSet) error {
	if !s.enabled() {
		return nil
	}
	for i, text := range set.Custom {
		dec, err := s.cipher.Decrypt(text)
		if err != nil {
			return err
		}
		set.Custom[i] = dec
	}
	return nil
}

// EncryptUser encrypts the email and sets its blind index for lookup.
func (s *EncryptionService) EncryptUser(u *models.User) error {
	if !s.enabled() {
		return nil
	}
	enc, err := s.cipher.Encrypt(u.Email)
	if err != nil {
		return err
	}
	u.EmailBlindIndex = s.cipher.BlindIndex(u.Email)
	u.Email = enc
	return nil
}

// DecryptUser reverses EncryptUser.
func (s *EncryptionService) DecryptUser(u *models.User) error {
	if !s.enabled() {
		return nil
	}
	dec, err := s.cipher.Decrypt(u.Email)
	if err != nil {
		return err
	}
	u.Email = dec
	return nil
}

// EmailBlindIndex computes the lookup index for an email. Empty when
// encryption is disabled; callers then match on the plaintext email.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	if !s.enabled() {
		return ""
	}
	return s.cipher.BlindIndex(email)
}
