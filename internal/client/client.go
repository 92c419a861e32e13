// Package client реализует HTTP-клиент к бэкенду сервиса сокращения ссылок.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"go.uber.org/zap"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultRetrievePath = "/api/stats/"
	shortenPath         = "/api/shorten"
	maxBodySize         = 1 << 20
)

// Сообщения для пользователя
const (
	MsgShortenFailed  = "Error shortening URL. Please try again."
	MsgRetrieveFailed = "Error retrieving URL. Please try again."
	MsgNotFound       = "URL not found. The short code might not exist."
)

// Client ходит в бэкенд и приводит сбои к ошибкам model.Error.
type Client struct {
	baseURL      string
	retrievePath string
	http         *http.Client
	logger       *zap.Logger
}

// Option настраивает Client.
type Option func(*Client)

// WithTimeout задаёт таймаут одного запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient подменяет http.Client (например, клиент httptest-сервера).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRetrievePath задаёт префикс пути поиска по коду, например /api/url/.
func WithRetrievePath(p string) Option {
	return func(c *Client) {
		c.retrievePath = "/" + strings.Trim(p, "/") + "/"
	}
}

// WithLogger задаёт логгер.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New создаёт клиент для бэкенда по адресу baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		retrievePath: defaultRetrievePath,
		http:         &http.Client{Timeout: defaultTimeout},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Shorten отправляет оригинальный URL и возвращает созданную (или существующую) запись.
func (c *Client) Shorten(ctx context.Context, originalURL string) (*model.Link, error) {
	body, err := json.Marshal(model.ShortenRequest{OriginalURL: originalURL})
	if err != nil {
		return nil, model.NewNetworkError(MsgShortenFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+shortenPath, bytes.NewReader(body))
	if err != nil {
		return nil, model.NewNetworkError(MsgShortenFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	link, status, err := c.do(req)
	if err != nil {
		c.logger.Warn("shorten request failed",
			zap.String("url", originalURL),
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, model.NewNetworkError(MsgShortenFailed, err)
	}
	return link, nil
}

// Retrieve ищет запись по короткому коду.
func (c *Client) Retrieve(ctx context.Context, code string) (*model.Link, error) {
	endpoint := c.baseURL + c.retrievePath + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.NewNetworkError(MsgRetrieveFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	link, status, err := c.do(req)
	if status == http.StatusNotFound {
		c.logger.Debug("short code not found", zap.String("code", code))
		return nil, model.NewNotFoundError(MsgNotFound, err)
	}
	if err != nil {
		c.logger.Warn("retrieve request failed",
			zap.String("code", code),
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, model.NewNetworkError(MsgRetrieveFailed, err)
	}
	return link, nil
}

// do выполняет запрос и разбирает ответ. status равен 0, если ответа не было.
func (c *Client) do(req *http.Request) (*model.Link, int, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	body := io.LimitReader(resp.Body, maxBodySize)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, body)
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var link model.Link
	if err := json.NewDecoder(body).Decode(&link); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	if link.ShortCode == "" {
		return nil, resp.StatusCode, fmt.Errorf("response has no short_code")
	}
	return &link, resp.StatusCode, nil
}
