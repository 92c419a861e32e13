// Package handlers отдаёт страницу сокращателя ссылок и обрабатывает её формы.
package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"github.com/Totarae/URLShortenerWeb/internal/service"
	"github.com/Totarae/URLShortenerWeb/internal/session"
	"github.com/Totarae/URLShortenerWeb/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler держит зависимости HTTP-обработчиков.
type Handler struct {
	orchestrator *service.Orchestrator
	sessions     *session.Manager
	prefs        storage.PreferenceStore
	shortBaseURL string
	defaultTheme model.Theme
	logger       *zap.Logger
}

// NewHandler создаёт обработчики.
func NewHandler(
	orchestrator *service.Orchestrator,
	sessions *session.Manager,
	prefs storage.PreferenceStore,
	shortBaseURL string,
	defaultTheme model.Theme,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		prefs:        prefs,
		shortBaseURL: shortBaseURL,
		defaultTheme: defaultTheme,
		logger:       logger,
	}
}

// Index отрисовывает страницу по состоянию сессии. GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	st, ok := h.resolve(w, r)
	if !ok {
		return
	}

	page := BuildPage(st.Snapshot(), h.GetTheme(r, st.ID), h.shortBaseURL)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Shorten обрабатывает форму сокращения. POST /shorten
func (h *Handler) Shorten(w http.ResponseWriter, r *http.Request) {
	st, ok := h.resolve(w, r)
	if !ok {
		return
	}

	input := r.PostFormValue("url")
	submit := st.BeginSubmit(model.ModeShorten, input)
	link, err := h.orchestrator.ShortenURL(r.Context(), st.Request, input)
	st.CompleteShorten(submit, link, err)
	h.logResult("shorten", st.ID, err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Retrieve обрабатывает форму поиска по коду. POST /retrieve
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	st, ok := h.resolve(w, r)
	if !ok {
		return
	}

	input := r.PostFormValue("code")
	submit := st.BeginSubmit(model.ModeRetrieve, input)
	link, err := h.orchestrator.RetrieveURL(r.Context(), st.Request, input)
	st.CompleteRetrieve(submit, link, err)
	h.logResult("retrieve", st.ID, err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SwitchTab переключает вкладку. POST /tab
func (h *Handler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseMode(r.PostFormValue("mode"))
	if err != nil {
		http.Error(w, "Bad Request: unknown tab", http.StatusBadRequest)
		return
	}
	st, ok := h.resolve(w, r)
	if !ok {
		return
	}

	st.SwitchTab(mode)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ChangeTheme сохраняет выбранную тему. POST /theme
func (h *Handler) ChangeTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := model.ParseTheme(r.PostFormValue("theme"))
	if err != nil {
		http.Error(w, "Bad Request: unknown theme", http.StatusBadRequest)
		return
	}
	st, ok := h.resolve(w, r)
	if !ok {
		return
	}

	h.SetTheme(w, st.ID, theme)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OpenShortLink открывает короткую ссылку и увеличивает счётчик на странице.
// Сам бэкенд посчитает переход при редиректе; страница узнает об этом только
// при следующем запросе. GET /open/{code}
func (h *Handler) OpenShortLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "Bad Request: Missing code in URL", http.StatusBadRequest)
		return
	}

	st, ok := h.sessions.Lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	link, ok := st.RecordVisit(code)
	if !ok {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, link.ShortURL(h.shortBaseURL), http.StatusFound)
}

// Ping отвечает, что сервер жив. GET /ping
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	st, err := h.sessions.Resolve(w, r)
	if err != nil {
		h.logger.Error("resolve session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return st, true
}

func (h *Handler) logResult(action, sessionID string, err error) {
	switch {
	case err == nil:
		h.logger.Debug("request succeeded", zap.String("action", action), zap.String("session", sessionID))
	case errors.Is(err, model.ErrValidation):
		h.logger.Debug("invalid input", zap.String("action", action), zap.Error(err))
	default:
		h.logger.Warn("backend request failed",
			zap.String("action", action),
			zap.String("session", sessionID),
			zap.Error(err),
		)
	}
}
