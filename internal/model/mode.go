package model

import "fmt"

// Mode задаёт активную вкладку интерфейса.
type Mode string

const (
	ModeShorten  Mode = "shorten"
	ModeRetrieve Mode = "retrieve"
)

// ParseMode разбирает значение вкладки из формы.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeShorten, ModeRetrieve:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Theme хранит предпочтение оформления.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme разбирает значение темы из формы или cookie.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}
