//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
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

type IMessageRepository interface {
	StoreMessage(conversationID, senderID uuid.UUID, body, language string) (domain.Message, error)
	GetMessages(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	GetMessage(conversationID uuid.UUID, id uuid.UUID) (domain.Message, error)
	LatestMessage(conversationID uuid.UUID) (*domain.Message, error)
	CountSince(conversationID uuid.UUID, since time.Time, excludeSender uuid.UUID) (int, error)
	Close() error
}

type MessageRepository struct {
	db            *badger.DB
	seq           *badger.Sequence
	log           *slog.Logger
	limitMessages *int
}

// NewMessageRepository wires a badger-backed message store. The sequence
// hands out insertion-order numbers used to break sent_at ties; Release it
// via Close before shutting the database down.
func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:msg"), 128)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, seq: seq, log: log, limitMessages: limitMessages}, nil
}

func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

// Message keys are formatted as "msg:{conv_id}:{timestamp_padded}:{seq_padded}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order doubles as the (conversation_id, sent_at) index).
//  2. Break same-nanosecond ties in insertion order via the sequence number.
func messageKey(conversationID uuid.UUID, at time.Time, seq uint64) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%012d", conversationID, at.UnixNano(), seq))
}

func messagePrefix(conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", conversationID))
}

// msgIDKey is a point-lookup index so search results can be resolved
// without scanning the conversation.
func msgIDKey(conversationID, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:id:%s:%s", conversationID, id))
}

// StoreMessage persists a message after re-checking that the sender is still
// a participant, inside the same transaction as the insert. Badger runs
// serializable transactions, so membership cannot change between the check
// and the write.
func (m *MessageRepository) StoreMessage(conversationID, senderID uuid.UUID, body, language string) (domain.Message, error) {
	seq, err := m.seq.Next()
	if err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		Language:       language,
		SentAt:         time.Now().UTC(),
		Seq:            seq,
	}
	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(convKey(conversationID)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: conversation %s", errors.ErrNotFound, conversationID)
		} else if err != nil {
			return err
		}
		if _, err := txn.Get(memberKey(conversationID, senderID)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: sender must be a participant", errors.ErrForbidden)
		} else if err != nil {
			return err
		}
		key := messageKey(conversationID, message.SentAt, seq)
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(msgIDKey(conversationID, message.ID), key)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetMessages lists a conversation oldest first (non-decreasing sent_at,
// insertion order on ties — the key order). A cursor from a previous page
// resumes the scan; collection stops at the configured limit.
func (m *MessageRepository) GetMessages(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		prefixLen := len(prefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = prefix
		default:
			seekKey = append(append([]byte{}, prefix...), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(val []byte) error {
				var message domain.Message
				if err := json.Unmarshal(val, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

// GetMessage resolves one message via the id index.
func (m *MessageRepository) GetMessage(conversationID uuid.UUID, id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(msgIDKey(conversationID, id))
		if err != nil {
			return err
		}
		var key []byte
		if err := item.Value(func(val []byte) error {
			key = append([]byte{}, val...)
			return nil
		}); err != nil {
			return err
		}
		record, err := txn.Get(key)
		if err != nil {
			return err
		}
		return record.Value(func(val []byte) error {
			return json.Unmarshal(val, &message)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, fmt.Errorf("%w: message %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// LatestMessage returns the message with the maximum sent_at (ties to the
// most recently inserted) or nil for an empty conversation. One reverse
// seek, no scan.
func (m *MessageRepository) LatestMessage(conversationID uuid.UUID) (*domain.Message, error) {
	var message *domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the last possible key of the prefix, then step back.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		it.Seek(seekKey)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		return it.Item().Value(func(val []byte) error {
			var decoded domain.Message
			if err := json.Unmarshal(val, &decoded); err != nil {
				return err
			}
			message = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// CountSince counts messages with sent_at >= since, skipping those authored
// by excludeSender. The padded timestamp lets the scan start at the window
// boundary instead of the head of the conversation.
func (m *MessageRepository) CountSince(conversationID uuid.UUID, since time.Time, excludeSender uuid.UUID) (int, error) {
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte(fmt.Sprintf("%019d", since.UnixNano()))...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var message domain.Message
				if err := json.Unmarshal(val, &message); err != nil {
					return err
				}
				if message.SenderID != excludeSender {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
