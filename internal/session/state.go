package session

import (
	"sync"
	"time"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"github.com/Totarae/URLShortenerWeb/internal/service"
)

// State хранит состояние интерфейса одного браузера.
// На каждую вкладку хранится не больше одной записи Link.
type State struct {
	ID      string
	Request *service.RequestState

	mu               sync.Mutex
	tab              model.Mode
	urlInput         string
	codeInput        string
	shortened        *model.Link
	retrieved        *model.Link
	optimisticVisits int
	lastSeen         time.Time
	// submit растёт при каждой отправке формы и смене вкладки,
	// lastSubmit хранит номер последней отправки формы
	submit     uint64
	lastSubmit uint64
}

// Snapshot это неизменяемая копия State для рендеринга.
type Snapshot struct {
	Tab       model.Mode
	URLInput  string
	CodeInput string
	Shortened *model.Link
	Retrieved *model.Link
	// OptimisticVisits считает локальные переходы, о которых бэкенд нам не сообщал.
	OptimisticVisits int
	Loading          bool
	Error            string
}

func newState(id string, now time.Time) *State {
	return &State{
		ID:       id,
		Request:  service.NewRequestState(id),
		tab:      model.ModeShorten,
		lastSeen: now,
	}
}

// Snapshot возвращает копию состояния.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tab:              s.tab,
		URLInput:         s.urlInput,
		CodeInput:        s.codeInput,
		OptimisticVisits: s.optimisticVisits,
		Loading:          s.Request.Loading(),
		Error:            s.Request.Error(),
	}
	if s.shortened != nil {
		l := *s.shortened
		snap.Shortened = &l
	}
	if s.retrieved != nil {
		l := *s.retrieved
		snap.Retrieved = &l
	}
	return snap
}

// SwitchTab переключает вкладку. Поле ввода и результат покидаемой вкладки
// очищаются вместе с сообщением об ошибке.
func (s *State) SwitchTab(m model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m == s.tab {
		return
	}
	switch s.tab {
	case model.ModeShorten:
		s.urlInput = ""
		s.shortened = nil
		s.optimisticVisits = 0
	case model.ModeRetrieve:
		s.codeInput = ""
		s.retrieved = nil
	}
	s.tab = m
	s.submit++
	s.Request.ClearError()
}

// BeginSubmit запоминает ввод и сбрасывает результаты перед новым запросом.
// Возвращённый номер передаётся в CompleteShorten или CompleteRetrieve.
func (s *State) BeginSubmit(m model.Mode, input string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tab = m
	s.shortened = nil
	s.retrieved = nil
	s.optimisticVisits = 0
	switch m {
	case model.ModeShorten:
		s.urlInput = input
	case model.ModeRetrieve:
		s.codeInput = input
	}
	s.submit++
	s.lastSubmit = s.submit
	return s.submit
}

// CompleteShorten сохраняет результат сокращения. При ошибке ввод остаётся.
// Результат устаревшей отправки отбрасывается.
func (s *State) CompleteShorten(submit uint64, link *model.Link, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(submit, err) || err != nil {
		return
	}
	s.shortened = link
	s.optimisticVisits = 0
	s.urlInput = ""
}

// CompleteRetrieve сохраняет результат поиска. При ошибке ввод остаётся.
// Результат устаревшей отправки отбрасывается.
func (s *State) CompleteRetrieve(submit uint64, link *model.Link, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(submit, err) || err != nil {
		return
	}
	s.retrieved = link
	s.codeInput = ""
}

// current сообщает, что отправка последняя. Если после неё вкладку только
// переключали, её ошибка стирается.
func (s *State) current(submit uint64, err error) bool {
	if submit == s.submit {
		return true
	}
	if err != nil && submit == s.lastSubmit {
		s.Request.ClearError()
	}
	return false
}

// RecordVisit увеличивает отображаемый счётчик переходов для кода.
// Бэкенд об этом не знает; расхождение сохраняется до следующего запроса.
func (s *State) RecordVisit(code string) (*model.Link, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shortened == nil || s.shortened.ShortCode != code {
		return nil, false
	}
	s.optimisticVisits++
	l := *s.shortened
	return &l, true
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
