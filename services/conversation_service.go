package services

import (
	"fmt"
	"log/slog"
	"time"

	"stayhub/domain"
	"stayhub/errors"
	"stayhub/projection"
	"stayhub/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConversationService interface {
	CreateConversation(actingUserID uuid.UUID, participantIDs []uuid.UUID) (ConversationView, error)
	AddParticipant(actingUserID, conversationID, userID uuid.UUID) error
	ListConversations(actingUserID uuid.UUID) ([]ConversationView, error)
	GetConversationDetail(actingUserID, conversationID uuid.UUID) (ConversationDetail, error)
}

// ConversationView is one row of GET /conversations: the thread, its
// participants' display data, and the per-viewer projection.
type ConversationView struct {
	ID           uuid.UUID           `json:"conversation_id"`
	Participants []domain.PublicUser `json:"participants"`
	CreatedAt    string              `json:"created_at"`
	projection.Summary
}

// ConversationDetail is the full thread with messages oldest first.
type ConversationDetail struct {
	ID           uuid.UUID           `json:"conversation_id"`
	Participants []domain.PublicUser `json:"participants"`
	CreatedAt    string              `json:"created_at"`
	Messages     []EnrichedMessage   `json:"messages"`
}

type ConversationService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	users         repositories.IUserRepository
	projector     projection.Projector
	log           *slog.Logger
}

func NewConversationService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	projector projection.Projector,
	log *slog.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		projector:     projector,
		log:           log,
	}
}

// CreateConversation starts a thread. The acting user is always a
// participant, listed or not; every referenced user must exist.
func (s *ConversationService) CreateConversation(actingUserID uuid.UUID, participantIDs []uuid.UUID) (ConversationView, error) {
	if actingUserID == uuid.Nil {
		return ConversationView{}, errors.ErrUnauthenticated
	}

	ids := lo.Uniq(append([]uuid.UUID{actingUserID}, participantIDs...))
	for _, id := range ids {
		if _, err := s.users.GetUserByID(id); err != nil {
			return ConversationView{}, err
		}
	}

	conv, err := s.conversations.CreateConversation(ids)
	if err != nil {
		return ConversationView{}, err
	}
	return s.view(conv, actingUserID)
}

// AddParticipant grows the membership; only current participants may invite.
// Removal is deliberately unsupported.
func (s *ConversationService) AddParticipant(actingUserID, conversationID, userID uuid.UUID) error {
	if actingUserID == uuid.Nil {
		return errors.ErrUnauthenticated
	}
	isMember, err := s.conversations.IsParticipant(conversationID, actingUserID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("%w: only participants may add members", errors.ErrForbidden)
	}
	if _, err := s.users.GetUserByID(userID); err != nil {
		return err
	}
	return s.conversations.AddParticipant(conversationID, userID)
}

// ListConversations returns the acting user's threads newest first, each
// with its freshly computed projection.
func (s *ConversationService) ListConversations(actingUserID uuid.UUID) ([]ConversationView, error) {
	if actingUserID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}

	conversations, err := s.conversations.ListByParticipant(actingUserID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view, err := s.view(conv, actingUserID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetConversationDetail returns the whole thread, messages ascending by
// sent_at (ties in insertion order). Only participants may read it.
func (s *ConversationService) GetConversationDetail(actingUserID, conversationID uuid.UUID) (ConversationDetail, error) {
	if actingUserID == uuid.Nil {
		return ConversationDetail{}, errors.ErrUnauthenticated
	}

	conv, err := s.conversations.GetConversation(conversationID)
	if err != nil {
		return ConversationDetail{}, err
	}
	if !conv.HasParticipant(actingUserID) {
		return ConversationDetail{}, fmt.Errorf("%w: only participants may read a conversation", errors.ErrForbidden)
	}

	participants, err := s.publicParticipants(conv)
	if err != nil {
		return ConversationDetail{}, err
	}

	messages, _, err := s.messages.GetMessages(conversationID, nil)
	if err != nil {
		return ConversationDetail{}, err
	}

	// Sender lookups are cached per detail call; threads usually have far
	// fewer participants than messages.
	senders := make(map[uuid.UUID]domain.PublicUser, len(participants))
	for _, p := range participants {
		senders[p.ID] = p
	}

	enriched := make([]EnrichedMessage, 0, len(messages))
	for _, message := range messages {
		sender, ok := senders[message.SenderID]
		if !ok {
			user, err := s.users.GetUserByID(message.SenderID)
			if err != nil {
				return ConversationDetail{}, err
			}
			sender = user.Public()
			senders[message.SenderID] = sender
		}
		enriched = append(enriched, EnrichedMessage{Message: message, Sender: sender})
	}

	return ConversationDetail{
		ID:           conv.ID,
		Participants: participants,
		CreatedAt:    conv.CreatedAt.Format(time.RFC3339Nano),
		Messages:     enriched,
	}, nil
}

func (s *ConversationService) view(conv domain.Conversation, viewerID uuid.UUID) (ConversationView, error) {
	participants, err := s.publicParticipants(conv)
	if err != nil {
		return ConversationView{}, err
	}
	summary, err := s.projector.Project(conv.ID, viewerID)
	if err != nil {
		return ConversationView{}, err
	}
	return ConversationView{
		ID:           conv.ID,
		Participants: participants,
		CreatedAt:    conv.CreatedAt.Format(time.RFC3339Nano),
		Summary:      summary,
	}, nil
}

func (s *ConversationService) publicParticipants(conv domain.Conversation) ([]domain.PublicUser, error) {
	participants := make([]domain.PublicUser, 0, len(conv.ParticipantIDs))
	for _, id := range conv.ParticipantIDs {
		user, err := s.users.GetUserByID(id)
		if err != nil {
			return nil, err
		}
		participants = append(participants, user.Public())
	}
	return participants, nil
}
