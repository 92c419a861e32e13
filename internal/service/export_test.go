package service

// InFlight возвращает число выполняющихся операций.
func (s *RequestState) InFlight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight
}
