package domain

import "time"

// ============================================================
// Session and settings singletons
// ============================================================

// Session is the single active login. A new login overwrites any prior
// session unconditionally; last login wins.
type Session struct {
	UserID    string    `json:"userId"`
	Type      UserType  `json:"type"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	LoginTime time.Time `json:"loginTime"`
}

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings is the singleton preferences record.
type Settings struct {
	Theme Theme `json:"theme"`
}

// DefaultSettings is the value seeded when no settings were persisted.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight}
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Theme *Theme `json:"theme,omitempty"`
}
