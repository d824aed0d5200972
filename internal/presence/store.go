package presence

import "sync/atomic"

// Store holds the current Snapshot for the process. Only the Link writes it.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Current() Snapshot {
	p := s.current.Load()
	if p == nil {
		return Snapshot{}
	}
	return *p
}

func (s *Store) set(snap Snapshot) {
	s.current.Store(&snap)
}
