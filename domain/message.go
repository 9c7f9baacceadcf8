// Package domain contains core concepts of the homestay platform.
// This file defines Message entities and related rules.
// Messages are immutable once created; there is no edit or delete.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is an immutable event inside a conversation. Seq is assigned by
// the store at insertion time and breaks ordering ties between messages
// sharing the same SentAt.
type Message struct {
	ID             uuid.UUID `json:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"message_body"`
	Language       string    `json:"language,omitempty"`
	SentAt         time.Time `json:"sent_at"`
	Seq            uint64    `json:"-"`
}

// ValidBody reports whether a submitted body survives trimming.
// Whitespace-only messages are rejected before they reach the store.
func ValidBody(body string) bool {
	return strings.TrimSpace(body) != ""
}
