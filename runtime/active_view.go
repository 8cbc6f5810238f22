package runtime

import (
	"chat-relay/domain"

	"github.com/samber/lo"
)

// ActiveView keeps the participants that chose both a name and a language.
// Order is preserved.
func ActiveView(participants []domain.Participant) []domain.Participant {
	return lo.Filter(participants, func(p domain.Participant, _ int) bool {
		return p.IsActive()
	})
}
