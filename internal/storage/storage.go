package storage

import (
	"github.com/Totarae/URLShortenerWeb/internal/model"
)

// PreferenceStore определяет интерфейс для хранения выбранной темы.
type PreferenceStore interface {
	// SaveTheme сохраняет тему для сессии.
	SaveTheme(sessionID string, theme model.Theme) error
	// Theme возвращает сохранённую тему сессии.
	Theme(sessionID string) (model.Theme, bool)
}
