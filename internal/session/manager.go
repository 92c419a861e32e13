// Package session выдаёт браузеру подписанную cookie сессии и хранит
// состояние интерфейса на стороне сервера.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cookieName = "session_token"
	issuer     = "shortener-web"
)

// Manager выдаёт и проверяет cookie сессии и держит состояния в памяти.
type Manager struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

// NewManager создаёт менеджер сессий.
func NewManager(secret string, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		states: make(map[string]*State),
	}
}

// sign создаёт токен для идентификатора сессии
func (m *Manager) sign(id string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// parse проверяет подпись и срок действия токена
func (m *Manager) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// SignCookieValue возвращает значение cookie для id (нужно тестам).
func (m *Manager) SignCookieValue(id string) (string, error) {
	return m.sign(id)
}

// Resolve возвращает состояние сессии запроса, выдавая новую cookie,
// если её нет или она недействительна.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*State, error) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		id, perr := m.parse(c.Value)
		if perr == nil {
			return m.state(id), nil
		}
		m.logger.Debug("invalid session cookie", zap.Error(perr))
	}
	return m.issue(w)
}

// Lookup возвращает состояние без выдачи новой cookie.
func (m *Manager) Lookup(r *http.Request) (*State, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	id, err := m.parse(c.Value)
	if err != nil {
		return nil, false
	}
	return m.state(id), true
}

func (m *Manager) issue(w http.ResponseWriter) (*State, error) {
	id := uuid.NewString()
	token, err := m.sign(id)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return m.state(id), nil
}

func (m *Manager) state(id string) *State {
	now := m.now()

	m.mu.Lock()
	st, ok := m.states[id]
	if !ok {
		st = newState(id, now)
		m.states[id] = st
	}
	m.mu.Unlock()

	st.touch(now)
	return st
}

// Sweep удаляет состояния, к которым не обращались дольше ttl.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, st := range m.states {
		if st.idleSince(now) > m.ttl && !st.Request.Loading() {
			delete(m.states, id)
			removed++
		}
	}
	return removed
}

// Len возвращает число активных сессий.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
