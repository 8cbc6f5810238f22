package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

var _ contract.IRegistry = (*Registry)(nil)

// Registry owns the live set of connected participants.
// Insertion order is kept so that snapshots are stable for a given state.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]*domain.Participant
	order        []string
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*domain.Participant),
	}
}

// Register inserts a participant with only its id set.
// A duplicate id means the transport broke its uniqueness guarantee.
func (r *Registry) Register(participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[participantID]; ok {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateID, participantID)
	}
	r.participants[participantID] = domain.NewParticipant(participantID)
	r.order = append(r.order, participantID)
	return nil
}

// SetName updates the display name in place.
func (r *Registry) SetName(participantID, name string) error {
	return r.update(participantID, func(p *domain.Participant) {
		p.Name = &name
	})
}

// SetLanguage updates the language in place.
func (r *Registry) SetLanguage(participantID string, lang domain.Language) error {
	return r.update(participantID, func(p *domain.Participant) {
		p.Language = &lang
	})
}

func (r *Registry) update(participantID string, fn func(p *domain.Participant)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[participantID]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownParticipant, participantID)
	}
	fn(p)
	return nil
}

// Remove deletes the participant. Removing an absent id is a no-op,
// a disconnect may race with other cleanup.
func (r *Registry) Remove(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[participantID]; !ok {
		return
	}
	delete(r.participants, participantID)
	r.order = lo.Without(r.order, participantID)
}

// Get returns a copy of the participant.
func (r *Registry) Get(participantID string) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[participantID]
	if !ok {
		return domain.Participant{}, false
	}
	return p.Clone(), true
}

// SnapshotActive returns copies of the active participants in connect order.
// The result never aliases registry state and is safe to iterate while
// the registry keeps mutating.
func (r *Registry) SnapshotActive() []domain.Participant {
	return ActiveView(r.All())
}

// Len returns the number of connected participants, active or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// All returns copies of every connected participant in connect order.
func (r *Registry) All() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(id string, _ int) domain.Participant {
		return r.participants[id].Clone()
	})
}
