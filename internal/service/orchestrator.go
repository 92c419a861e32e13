// Package service связывает вызов бэкенда с состоянием загрузки и ошибки,
// которое видит слой представления.
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -destination=mocks/backend_mock.go -package=mocks . Backend

// Backend описывает транспорт до сервиса сокращения ссылок.
type Backend interface {
	Shorten(ctx context.Context, originalURL string) (*model.Link, error)
	Retrieve(ctx context.Context, code string) (*model.Link, error)
}

// Сообщения валидации
const (
	MsgEmptyURL   = "Please enter a URL to shorten."
	MsgInvalidURL = "Please enter a valid URL, including http:// or https://."
	MsgEmptyCode  = "Please enter a short code or URL."
	MsgCanceled   = "Request was cancelled. Please try again."
)

// RequestState хранит флаг загрузки и последнюю ошибку одного пользователя.
// idle -> loading -> (success | failed) -> idle
type RequestState struct {
	id       string
	mu       sync.RWMutex
	inflight int
	err      string
}

// NewRequestState создаёт состояние для сессии id.
func NewRequestState(id string) *RequestState {
	return &RequestState{id: id}
}

// Loading сообщает, есть ли запрос в полёте.
func (s *RequestState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Error возвращает сообщение последней неудачной операции.
func (s *RequestState) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError сбрасывает сообщение об ошибке.
func (s *RequestState) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *RequestState) begin() {
	s.mu.Lock()
	s.inflight++
	s.err = ""
	s.mu.Unlock()
}

// finish завершает операцию. Отмена запроса самим вызывающим в ошибку
// не записывается.
func (s *RequestState) finish(err error) {
	s.mu.Lock()
	s.inflight--
	switch {
	case err == nil:
		s.err = ""
	case !errors.Is(err, context.Canceled):
		s.err = model.UserMessage(err)
	}
	s.mu.Unlock()
}

// Orchestrator выполняет операции сокращения и поиска.
type Orchestrator struct {
	backend Backend
	logger  *zap.Logger
	group   singleflight.Group
}

// NewOrchestrator создаёт оркестратор поверх backend.
func NewOrchestrator(backend Backend, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{backend: backend, logger: logger}
}

// ShortenURL сокращает rawURL. Одинаковые запросы одной сессии, пришедшие
// пока первый ещё выполняется, получают его результат.
func (o *Orchestrator) ShortenURL(ctx context.Context, st *RequestState, rawURL string) (*model.Link, error) {
	st.begin()
	input := strings.TrimSpace(rawURL)
	link, err := o.run(ctx, st, "shorten", input, validateURL, func(ctx context.Context) (*model.Link, error) {
		return o.backend.Shorten(ctx, input)
	})
	st.finish(err)
	return link, err
}

// RetrieveURL ищет запись по короткому коду или полной короткой ссылке.
func (o *Orchestrator) RetrieveURL(ctx context.Context, st *RequestState, input string) (*model.Link, error) {
	st.begin()
	code := ExtractShortCode(input)
	link, err := o.run(ctx, st, "retrieve", code, validateCode, func(ctx context.Context) (*model.Link, error) {
		return o.backend.Retrieve(ctx, code)
	})
	st.finish(err)
	return link, err
}

// run выполняет общий для дубликатов вызов бэкенда. Вызов не наследует отмену
// участников и ограничен таймаутом клиента; участник с отменённым контекстом
// перестаёт ждать.
func (o *Orchestrator) run(
	ctx context.Context,
	st *RequestState,
	action, input string,
	validate func(string) error,
	call func(context.Context) (*model.Link, error),
) (*model.Link, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	key := st.id + "|" + action + "|" + input
	shared := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (interface{}, error) {
		return call(shared)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		o.logger.Debug("caller gave up waiting", zap.String("action", action), zap.String("input", input))
		return nil, model.NewNetworkError(MsgCanceled, ctx.Err())
	}

	if res.Shared {
		o.logger.Debug("duplicate submission coalesced", zap.String("action", action), zap.String("input", input))
	}
	if res.Err != nil {
		o.logger.Info("request failed", zap.String("action", action), zap.String("input", input), zap.Error(res.Err))
		return nil, res.Err
	}

	link := *res.Val.(*model.Link)
	return &link, nil
}

// ExtractShortCode достаёт код из вставленной короткой ссылки вида
// http://host/abc123; иначе возвращает ввод без пробелов.
func ExtractShortCode(input string) string {
	input = strings.TrimSpace(input)
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return input
	}
	return strings.TrimPrefix(u.Path, "/")
}

func validateURL(s string) error {
	if s == "" {
		return model.NewValidationError(MsgEmptyURL)
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.NewValidationError(MsgInvalidURL)
	}
	return nil
}

func validateCode(s string) error {
	if s == "" {
		return model.NewValidationError(MsgEmptyCode)
	}
	return nil
}
