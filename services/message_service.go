package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stayhub/domain"
	"stayhub/errors"
	"stayhub/moderation"
	"stayhub/observability"
	"stayhub/repositories"
	"stayhub/search"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IMessageService interface {
	SubmitMessage(ctx context.Context, actingUserID, conversationID, senderID uuid.UUID, body string) (EnrichedMessage, error)
	SearchMessages(ctx context.Context, actingUserID, conversationID uuid.UUID, query string, limit int) ([]EnrichedMessage, error)
}

// EnrichedMessage is a stored message plus the sender's display data, the
// shape returned by the API.
type EnrichedMessage struct {
	domain.Message
	Sender domain.PublicUser `json:"sender"`
}

type MessageService struct {
	messages      repositories.IMessageRepository
	conversations repositories.IConversationRepository
	users         repositories.IUserRepository
	filter        *moderation.Filter
	index         *search.MessageIndex
	stats         *observability.Manager
	log           *slog.Logger
}

func NewMessageService(
	messages repositories.IMessageRepository,
	conversations repositories.IConversationRepository,
	users repositories.IUserRepository,
	filter *moderation.Filter,
	index *search.MessageIndex,
	stats *observability.Manager,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		users:         users,
		filter:        filter,
		index:         index,
		stats:         stats,
		log:           log,
	}
}

// SubmitMessage validates and persists one message. The precondition ladder
// produces a distinct error per violated rule, and a failed submission
// leaves the conversation untouched:
//
//  1. acting user must be authenticated (Unauthorized);
//  2. sender must be the acting user, no impersonation (Forbidden);
//  3. sender must be a current participant (Forbidden);
//  4. body must survive trimming (InvalidInput).
//
// The store re-checks membership inside the insert transaction, so the
// guard holds even against a concurrent membership change.
func (s *MessageService) SubmitMessage(ctx context.Context, actingUserID, conversationID, senderID uuid.UUID, body string) (EnrichedMessage, error) {
	if actingUserID == uuid.Nil {
		return EnrichedMessage{}, errors.ErrUnauthenticated
	}
	if senderID != actingUserID {
		s.stats.IncrRejectedWrites()
		return EnrichedMessage{}, fmt.Errorf("%w: cannot send as someone else", errors.ErrForbidden)
	}

	if _, err := s.conversations.GetConversation(conversationID); err != nil {
		return EnrichedMessage{}, err
	}
	isMember, err := s.conversations.IsParticipant(conversationID, senderID)
	if err != nil {
		return EnrichedMessage{}, err
	}
	if !isMember {
		s.stats.IncrRejectedWrites()
		return EnrichedMessage{}, fmt.Errorf("%w: sender must be a participant", errors.ErrForbidden)
	}

	if !domain.ValidBody(body) {
		s.stats.IncrRejectedWrites()
		return EnrichedMessage{}, fmt.Errorf("%w: message body must not be empty", errors.ErrInvalidInput)
	}

	sender, err := s.users.GetUserByID(senderID)
	if err != nil {
		return EnrichedMessage{}, err
	}

	body = strings.TrimSpace(body)
	sanitized, censoredWords := s.filter.Censor(body)
	if len(censoredWords) > 0 {
		s.log.Info("Message censored",
			"conversation", conversationID,
			"sender", senderID,
			"words", len(censoredWords))
	}

	language := whatlanggo.Detect(sanitized).Lang.Iso6391()

	message, err := s.messages.StoreMessage(conversationID, senderID, sanitized, language)
	if err != nil {
		return EnrichedMessage{}, err
	}
	s.stats.IncrMessagesStored()

	// The index is derived state; an indexing failure must not fail the
	// submission that already committed.
	if err := s.index.Index(message); err != nil {
		s.log.Warn("Message indexing failed", "message", message.ID, "err", err)
	}

	return EnrichedMessage{Message: message, Sender: sender.Public()}, nil
}

// SearchMessages runs a full-text query scoped to one conversation. Only
// participants may search; results are resolved against the store so the
// index never serves message content directly.
func (s *MessageService) SearchMessages(ctx context.Context, actingUserID, conversationID uuid.UUID, query string, limit int) ([]EnrichedMessage, error) {
	if actingUserID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", errors.ErrInvalidInput)
	}

	isMember, err := s.conversations.IsParticipant(conversationID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: only participants may search a conversation", errors.ErrForbidden)
	}

	ids, err := s.index.Search(ctx, conversationID, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]EnrichedMessage, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetMessage(conversationID, id)
		if err != nil {
			// Index can momentarily lag behind deletes of the store dir;
			// skip dangling hits instead of failing the whole search.
			s.log.Warn("Search hit missing from store", "message", id, "err", err)
			continue
		}
		sender, err := s.users.GetUserByID(message.SenderID)
		if err != nil {
			return nil, err
		}
		results = append(results, EnrichedMessage{Message: message, Sender: sender.Public()})
	}
	return results, nil
}
