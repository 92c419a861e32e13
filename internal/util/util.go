package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"go.uber.org/zap"
)

// PrefStore это потокобезопасное хранилище темы по сессиям.
// Если задан файл, каждая запись дописывается в него строкой JSON.
type PrefStore struct {
	data   map[string]model.Theme
	mutex  sync.RWMutex
	file   string
	logger *zap.Logger
}

// NewPrefStore создаёт хранилище и загружает записи из файла
func NewPrefStore(file string, logger *zap.Logger) *PrefStore {
	store := &PrefStore{
		data:   make(map[string]model.Theme),
		file:   file,
		logger: logger,
	}

	if err := store.LoadFromFile(); err != nil {
		logger.Warn("Ошибка загрузки настроек из файла", zap.String("file", file), zap.Error(err))
	}

	return store
}

// SaveTheme сохраняет тему в память и в файл
func (s *PrefStore) SaveTheme(sessionID string, theme model.Theme) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.data[sessionID] == theme {
		return nil
	}
	s.data[sessionID] = theme

	if err := s.AppendToFile(model.Entry{SessionID: sessionID, Theme: theme}); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Theme возвращает сохранённую тему сессии
func (s *PrefStore) Theme(sessionID string) (model.Theme, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	theme, ok := s.data[sessionID]
	return theme, ok
}

// LoadFromFile загружает записи при старте; последняя запись сессии побеждает
func (s *PrefStore) LoadFromFile() error {
	if s.file == "" {
		return nil
	}
	file, err := os.Open(s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	for {
		var entry model.Entry
		if err := decoder.Decode(&entry); err != nil {
			break
		}
		if _, err := model.ParseTheme(string(entry.Theme)); err != nil {
			continue
		}
		s.data[entry.SessionID] = entry.Theme
	}

	s.logger.Info("Загружены настройки темы", zap.Int("sessions", len(s.data)), zap.String("file", s.file))
	return nil
}

// AppendToFile добавляет запись в файл
func (s *PrefStore) AppendToFile(entry model.Entry) error {
	if s.file == "" {
		return nil
	}
	file, err := os.OpenFile(s.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = file.Write(append(data, '\n'))
	return err
}
