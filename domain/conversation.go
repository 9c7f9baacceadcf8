// Package domain contains core concepts of the homestay platform.
// This file defines Conversation threads and participant membership.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a thread shared by its participants. Membership is a
// many-to-many relation kept as junction rows in the store, never embedded
// here: a Conversation value only carries the participant ids it was loaded
// with. Participants may be added but never removed.
type Conversation struct {
	ID             uuid.UUID   `json:"conversation_id"`
	ParticipantIDs []uuid.UUID `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
