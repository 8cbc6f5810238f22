// Package domain contains core concepts of the chat relay.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Participant is one connected identity. Name and Language stay nil
// until the participant selects them.
type Participant struct {
	ID       string
	Name     *string
	Language *Language
}

// NewParticipant creates a participant with only its connection id set.
func NewParticipant(id string) *Participant {
	return &Participant{ID: id}
}

// IsActive reports whether the participant has both a name and a language.
func (p Participant) IsActive() bool {
	return p.Name != nil && p.Language != nil
}

// DisplayName returns the chosen name, or an empty string when none was chosen.
func (p Participant) DisplayName() string {
	if p.Name == nil {
		return ""
	}
	return *p.Name
}

// Clone returns a deep copy that does not share pointers with p.
func (p Participant) Clone() Participant {
	clone := Participant{ID: p.ID}
	if p.Name != nil {
		name := *p.Name
		clone.Name = &name
	}
	if p.Language != nil {
		lang := *p.Language
		clone.Language = &lang
	}
	return clone
}
