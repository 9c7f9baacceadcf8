// Package projection builds read-only derived views over stored
// conversations. Projections are recomputed on every request, never
// persisted or cached, so they always reflect committed state.
package projection

import (
	"time"

	"stayhub/domain"
	"stayhub/repositories"

	"github.com/google/uuid"
)

// DefaultLookback bounds the unread-count window when no override is
// configured.
const DefaultLookback = 30 * 24 * time.Hour

// Summary is the per-viewer view of a conversation: the latest message and
// how many recent messages the viewer has not authored.
type Summary struct {
	LastMessage *domain.Message `json:"last_message"`
	UnreadCount int             `json:"unread_count"`
}

type Projector struct {
	messages repositories.IMessageRepository
	lookback time.Duration
}

// NewProjector uses DefaultLookback when lookback is zero or negative.
func NewProjector(messages repositories.IMessageRepository, lookback time.Duration) Projector {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return Projector{messages: messages, lookback: lookback}
}

// Project computes the summary for one viewer. An unauthenticated viewer
// (uuid.Nil) still gets the last message but an unread count of zero; the
// projection never fails on missing auth.
func (p Projector) Project(conversationID, viewerID uuid.UUID) (Summary, error) {
	last, err := p.messages.LatestMessage(conversationID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{LastMessage: last}
	if viewerID == uuid.Nil {
		return summary, nil
	}

	since := time.Now().UTC().Add(-p.lookback)
	count, err := p.messages.CountSince(conversationID, since, viewerID)
	if err != nil {
		return Summary{}, err
	}
	summary.UnreadCount = count
	return summary, nil
}
