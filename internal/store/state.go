// Package store holds the site's theme and language selection as pure
// reducers over an immutable State, with injectable persistence and
// effect ports. Reducers only compute the next state; writing it
// anywhere is the Store's job.
package store

// Theme is the color scheme the demo surfaces render with.
type Theme string

// Language selects the HUD/demo copy and its text direction.
type Language string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

const (
	DefaultTheme    = ThemeDark
	DefaultLanguage = LangEnglish
)

// Dir returns the text direction for the language.
func (l Language) Dir() string {
	if l == LangArabic {
		return "rtl"
	}
	return "ltr"
}

// State is one immutable theme/language selection.
type State struct {
	Theme    Theme    `json:"theme"`
	Language Language `json:"language"`
}

// DefaultState returns the out-of-the-box selection.
func DefaultState() State {
	return State{Theme: DefaultTheme, Language: DefaultLanguage}
}

// Normalize replaces unknown values with defaults. Selections are
// cosmetic, so bad input falls back instead of failing.
func Normalize(s State) State {
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		s.Theme = DefaultTheme
	}
	if s.Language != LangEnglish && s.Language != LangArabic {
		s.Language = DefaultLanguage
	}
	return s
}

// ToggleTheme returns s with the other theme.
func ToggleTheme(s State) State {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	return s
}

// SetTheme returns s with t, normalized.
func SetTheme(s State, t Theme) State {
	s.Theme = t
	return Normalize(s)
}

// ToggleLanguage returns s with the other language.
func ToggleLanguage(s State) State {
	if s.Language == LangEnglish {
		s.Language = LangArabic
	} else {
		s.Language = LangEnglish
	}
	return s
}

// SetLanguage returns s with l, normalized.
func SetLanguage(s State, l Language) State {
	s.Language = l
	return Normalize(s)
}
