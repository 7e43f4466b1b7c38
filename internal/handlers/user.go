package handlers

import (
	"net/http"

	"mealcheckin/internal/users"
)

type UserHandler struct {
	users *users.Store
}

func NewUserHandler(users *users.Store) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the authenticated account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}
