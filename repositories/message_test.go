package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"stayhub/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Messages_In_Order(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	alice, bob := uuid.New(), uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice, bob})
	req.NoError(err)

	bodies := []string{"hello", "is anyone there", "yes, hi"}
	senders := []uuid.UUID{alice, alice, bob}
	for i, body := range bodies {
		_, err := repository.StoreMessage(conv.ID, senders[i], body, "en")
		req.NoError(err)
	}

	fetched, _, err := repository.GetMessages(conv.ID, nil)
	req.NoError(err)
	req.Len(fetched, len(bodies))
	for i, message := range fetched {
		req.Equal(bodies[i], message.Body)
		req.Equal(senders[i], message.SenderID)
		req.Equal(conv.ID, message.ConversationID)
		req.Equal("en", message.Language)
	}
	// Non-decreasing sent_at, oldest first.
	for i := 1; i < len(fetched); i++ {
		req.False(fetched[i].SentAt.Before(fetched[i-1].SentAt))
	}
}

func Test_Get_Messages_Paginates_With_Cursor(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	limit := 2
	repository, err := NewMessageRepository(db, slog.Default(), &limit)
	req.NoError(err)
	defer repository.Close()

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	for i := 0; i < 5; i++ {
		_, err := repository.StoreMessage(conv.ID, alice, fmt.Sprintf("message %d", i), "en")
		req.NoError(err)
	}

	var collected []string
	var cursor *string
	for {
		page, next, err := repository.GetMessages(conv.ID, cursor)
		req.NoError(err)
		if len(page) == 0 {
			break
		}
		req.LessOrEqual(len(page), limit)
		for _, message := range page {
			collected = append(collected, message.Body)
		}
		cursor = next
	}
	req.Equal([]string{"message 0", "message 1", "message 2", "message 3", "message 4"}, collected)
}

func Test_Store_Message_Requires_Membership(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	outsider := uuid.New()
	_, err = repository.StoreMessage(conv.ID, outsider, "let me in", "en")
	req.ErrorIs(err, errors.ErrForbidden)

	// The rejected write must leave the conversation untouched.
	fetched, _, err := repository.GetMessages(conv.ID, nil)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Store_Message_Requires_Existing_Conversation(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	_, err = repository.StoreMessage(uuid.New(), uuid.New(), "into the void", "en")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Get_Message_By_Id(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	stored, err := repository.StoreMessage(conv.ID, alice, "find me", "en")
	req.NoError(err)

	fetched, err := repository.GetMessage(conv.ID, stored.ID)
	req.NoError(err)
	req.Equal(stored.ID, fetched.ID)
	req.Equal("find me", fetched.Body)

	_, err = repository.GetMessage(conv.ID, uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Latest_Message_Tracks_The_Tail(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	latest, err := repository.LatestMessage(conv.ID)
	req.NoError(err)
	req.Nil(latest)

	for i := 0; i < 3; i++ {
		_, err := repository.StoreMessage(conv.ID, alice, fmt.Sprintf("message %d", i), "en")
		req.NoError(err)
	}

	latest, err = repository.LatestMessage(conv.ID)
	req.NoError(err)
	req.NotNil(latest)
	req.Equal("message 2", latest.Body)
}

func Test_Count_Since_Excludes_The_Viewer(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	conversations := NewConversationRepository(db, slog.Default())
	repository, err := NewMessageRepository(db, slog.Default(), nil)
	req.NoError(err)
	defer repository.Close()

	alice, bob := uuid.New(), uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice, bob})
	req.NoError(err)

	since := time.Now().UTC().Add(-time.Minute)
	for _, sender := range []uuid.UUID{alice, bob, alice, bob, bob} {
		_, err := repository.StoreMessage(conv.ID, sender, "ping", "en")
		req.NoError(err)
	}

	// Alice authored 2 of the 5; she has 3 unread.
	count, err := repository.CountSince(conv.ID, since, alice)
	req.NoError(err)
	req.Equal(3, count)

	// A window starting after the last write counts nothing.
	count, err = repository.CountSince(conv.ID, time.Now().UTC().Add(time.Minute), alice)
	req.NoError(err)
	req.Equal(0, count)
}
