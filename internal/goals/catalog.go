package goals

// CatalogSection groups the suggested intentions the way the selection
// screen presents them.
type CatalogSection struct {
	Emoji    string   `json:"emoji"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Catalog is the fixed set of selectable intentions.
var Catalog = []CatalogSection{
	{
		Emoji:    "🌱",
		Category: "Awareness & Mindset",
		Items: []string{
			"I want to understand my emotional eating triggers.",
			"I want to slow down and enjoy my meals more.",
			"I want to feel more in control of my food choices.",
			"I want to eat without guilt.",
		},
	},
	{
		Emoji:    "⚡",
		Category: "Health & Energy",
		Items: []string{
			"I want to have more consistent energy throughout the day.",
			"I want to reduce bloating and discomfort after meals.",
			"I want to improve my digestion.",
			"I want to support my immune system with better nutrition.",
		},
	},
	{
		Emoji:    "💪",
		Category: "Strength & Performance",
		Items: []string{
			"I want to fuel my body to support my workouts.",
			"I want to build muscle or maintain a healthy weight without strict tracking.",
			"I want to feel strong and nourished, not restricted.",
		},
	},
}

// InCatalog reports whether goal is one of the suggested intentions.
func InCatalog(goal string) bool {
	for _, section := range Catalog {
		for _, item := range section.Items {
			if item == goal {
				return true
			}
		}
	}
	return false
}
