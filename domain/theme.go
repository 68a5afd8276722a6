package domain

// ThemeSettings holds the optional UI theme read from the theme file.
type ThemeSettings struct {
	Headline *string           `json:"headline"`
	Colors   map[string]string `json:"colors"`
}
