//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stayhub/domain"
	"stayhub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	CreateConversation(participantIDs []uuid.UUID) (domain.Conversation, error)
	AddParticipant(conversationID, userID uuid.UUID) error
	IsParticipant(conversationID, userID uuid.UUID) (bool, error)
	GetConversation(conversationID uuid.UUID) (domain.Conversation, error)
	ListByParticipant(userID uuid.UUID) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) IConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

// Key layout:
//
//	conv:id:{uuid}                        -> conversation record (JSON)
//	conv:member:{convID}:{userID}         -> "" (junction row)
//	user:conv:{userID}:{inverted_ts}:{convID} -> convID
//
// Membership ("is U a participant of C") is a single point lookup on the
// junction key. The per-user listing index inverts the creation timestamp
// so a forward prefix scan yields conversations newest first.
func convKey(id uuid.UUID) []byte { return []byte("conv:id:" + id.String()) }

func memberKey(conversationID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("conv:member:%s:%s", conversationID, userID))
}

func userConvKey(userID, conversationID uuid.UUID, createdAt time.Time) []byte {
	inverted := int64(^uint64(0)>>1) - createdAt.UnixNano()
	return []byte(fmt.Sprintf("user:conv:%s:%019d:%s", userID, inverted, conversationID))
}

// CreateConversation writes the record, the junction rows, and the listing
// index rows in one transaction. All referenced users must already exist;
// the service layer checks that before calling.
func (c ConversationRepository) CreateConversation(participantIDs []uuid.UUID) (domain.Conversation, error) {
	conv := domain.Conversation{
		ID:             uuid.New(),
		ParticipantIDs: participantIDs,
		CreatedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return domain.Conversation{}, err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(convKey(conv.ID), data); err != nil {
			return err
		}
		for _, userID := range participantIDs {
			if err := txn.Set(memberKey(conv.ID, userID), nil); err != nil {
				return err
			}
			if err := txn.Set(userConvKey(userID, conv.ID, conv.CreatedAt), []byte(conv.ID.String())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// AddParticipant grows the membership. Adding an existing participant is a
// no-op; removal is not supported.
func (c ConversationRepository) AddParticipant(conversationID, userID uuid.UUID) error {
	conv, err := c.GetConversation(conversationID)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(memberKey(conversationID, userID), nil); err != nil {
			return err
		}
		return txn.Set(userConvKey(userID, conversationID, conv.CreatedAt), []byte(conversationID.String()))
	})
}

// IsParticipant is the membership guard used by the message pipeline. It
// always reads committed state; membership is a security boundary, so no
// caching sits in front of this lookup.
func (c ConversationRepository) IsParticipant(conversationID, userID uuid.UUID) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(conversationID, userID))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetConversation loads the record and collects the participant ids from the
// junction prefix.
func (c ConversationRepository) GetConversation(conversationID uuid.UUID) (domain.Conversation, error) {
	var conv domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(convKey(conversationID))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conv)
		}); err != nil {
			return err
		}

		prefix := []byte(fmt.Sprintf("conv:member:%s:", conversationID))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		conv.ParticipantIDs = conv.ParticipantIDs[:0]
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw := it.Item().Key()[len(prefix):]
			userID, err := uuid.ParseBytes(raw)
			if err != nil {
				return err
			}
			conv.ParticipantIDs = append(conv.ParticipantIDs, userID)
		}
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s", errors.ErrNotFound, conversationID)
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// ListByParticipant returns the user's conversations ordered by creation
// time descending, straight from the inverted-timestamp index.
func (c ConversationRepository) ListByParticipant(userID uuid.UUID) ([]domain.Conversation, error) {
	var ids []uuid.UUID
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("user:conv:%s:", userID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				id, err := uuid.ParseBytes(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, err := c.GetConversation(id)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}
