package objectives

import (
	"context"
	"strings"
	"sync"

	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/rs/zerolog/log"
)

// API is the goals part of the backend.
type API interface {
	GetObjectives(ctx context.Context) ([]dailymodel.Objective, error)
	CreateObjective(ctx context.Context, title string) (*dailymodel.Objective, error)
	UpdateObjective(ctx context.Context, id string, objective dailymodel.Objective) (*dailymodel.Objective, error)
	DeleteObjective(ctx context.Context, id string) error
}

// ChangeFunc receives the list after every change.
type ChangeFunc func([]dailymodel.Objective)

// Manager keeps the local copy of the user's objectives in step with the
// backend. An entry changes only after the server confirmed it. Failures
// are logged and leave the list as it was.
type Manager struct {
	api      API
	onChange ChangeFunc

	lock      sync.Mutex
	items     []dailymodel.Objective
	pending   string
	unmounted bool
}

func New(api API, onChange ChangeFunc) *Manager {
	return &Manager{api: api, onChange: onChange}
}

func (m *Manager) Objectives() []dailymodel.Objective {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]dailymodel.Objective(nil), m.items...)
}

// SetPending records the title being typed.
func (m *Manager) SetPending(title string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pending = title
}

func (m *Manager) Pending() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.pending
}

// Unmount stops all further updates from responses still in flight.
func (m *Manager) Unmount() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.unmounted = true
}

// apply mutates the list unless the manager was unmounted, then notifies.
func (m *Manager) apply(fn func()) {
	m.lock.Lock()
	if m.unmounted {
		m.lock.Unlock()
		return
	}
	fn()
	items := append([]dailymodel.Objective(nil), m.items...)
	m.lock.Unlock()

	if m.onChange != nil {
		m.onChange(items)
	}
}

func (m *Manager) Load(ctx context.Context) {
	items, err := m.api.GetObjectives(ctx)
	if err != nil {
		log.Err(err).Msg("loading objectives")
		items = nil
	}
	m.apply(func() {
		m.items = append([]dailymodel.Objective(nil), items...)
	})
}

// Add creates title remotely. A blank title does nothing.
func (m *Manager) Add(ctx context.Context, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	created, err := m.api.CreateObjective(ctx, title)
	if err != nil {
		log.Err(err).Str("title", title).Msg("creating objective")
		return
	}
	m.apply(func() {
		m.items = append(m.items, *created)
		m.pending = ""
	})
}

// AddPending adds the title recorded with SetPending.
func (m *Manager) AddPending(ctx context.Context) {
	m.Add(ctx, m.Pending())
}

// ToggleComplete flips the completion flag of id. Unknown ids are ignored.
func (m *Manager) ToggleComplete(ctx context.Context, id string) {
	current, ok := m.find(id)
	if !ok {
		return
	}
	flipped := !current.Completed()
	updated, err := m.api.UpdateObjective(ctx, id, dailymodel.Objective{Title: current.Title, IsCompleted: &flipped})
	if err != nil {
		log.Err(err).Str("id", id).Msg("updating objective")
		return
	}
	m.apply(func() {
		for i := range m.items {
			if m.items[i].ID == id {
				m.items[i] = *updated
				return
			}
		}
	})
}

// Remove deletes id remotely and then locally.
func (m *Manager) Remove(ctx context.Context, id string) {
	if err := m.api.DeleteObjective(ctx, id); err != nil {
		log.Err(err).Str("id", id).Msg("deleting objective")
		return
	}
	m.apply(func() {
		for i := range m.items {
			if m.items[i].ID == id {
				m.items = append(m.items[:i:i], m.items[i+1:]...)
				return
			}
		}
	})
}

func (m *Manager) find(id string) (dailymodel.Objective, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, o := range m.items {
		if o.ID == id {
			return o, true
		}
	}
	return dailymodel.Objective{}, false
}
