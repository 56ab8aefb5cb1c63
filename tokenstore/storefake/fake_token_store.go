package storefake

import (
	"sync"

	"github.com/jrsteele09/dailymood/tokenstore"
)

var _ tokenstore.Store = (*FakeTokenStore)(nil)

// FakeTokenStore is an in-memory token store that records how often it was
// written and cleared.
type FakeTokenStore struct {
	token   string
	sets    int
	deletes int
	getErr  error
	lock    sync.RWMutex
}

func NewFakeTokenStore(initial string) *FakeTokenStore {
	return &FakeTokenStore{token: initial}
}

func (s *FakeTokenStore) Get() (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.token, nil
}

func (s *FakeTokenStore) Set(token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.token = token
	s.sets++
	return nil
}

func (s *FakeTokenStore) Delete() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.token = ""
	s.deletes++
	return nil
}

// FailGets makes every subsequent Get return err.
func (s *FakeTokenStore) FailGets(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.getErr = err
}

func (s *FakeTokenStore) Token() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.token
}

func (s *FakeTokenStore) Sets() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.sets
}

func (s *FakeTokenStore) Deletes() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.deletes
}
