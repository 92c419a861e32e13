package handlers

import (
	"net/http"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"go.uber.org/zap"
)

const (
	themeCookie       = "ui-theme"
	themeCookieMaxAge = 365 * 24 * 60 * 60 // 1 год
)

// GetTheme читает тему: cookie браузера, затем серверное хранилище, затем значение по умолчанию.
func (h *Handler) GetTheme(r *http.Request, sessionID string) model.Theme {
	if c, err := r.Cookie(themeCookie); err == nil {
		if theme, err := model.ParseTheme(c.Value); err == nil {
			return theme
		}
	}
	if theme, ok := h.prefs.Theme(sessionID); ok {
		return theme
	}
	return h.defaultTheme
}

// SetTheme запоминает тему в cookie и в хранилище сессии.
func (h *Handler) SetTheme(w http.ResponseWriter, sessionID string, theme model.Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    string(theme),
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	if err := h.prefs.SaveTheme(sessionID, theme); err != nil {
		h.logger.Warn("failed to persist theme", zap.String("session", sessionID), zap.Error(err))
	}
}
