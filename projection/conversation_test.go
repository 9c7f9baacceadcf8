package projection

import (
	"log/slog"
	"testing"
	"time"

	"stayhub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupProjection(t *testing.T) (repositories.IConversationRepository, *repositories.MessageRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conversations := repositories.NewConversationRepository(db, slog.Default())
	messages, err := repositories.NewMessageRepository(db, slog.Default(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = messages.Close() })
	return conversations, messages
}

func Test_Project_Counts_Unread_For_The_Viewer(t *testing.T) {
	req := require.New(t)
	conversations, messages := setupProjection(t)

	alice, bob := uuid.New(), uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice, bob})
	req.NoError(err)

	// 5 messages, 2 authored by Alice.
	for _, sender := range []uuid.UUID{alice, bob, bob, alice, bob} {
		_, err := messages.StoreMessage(conv.ID, sender, "hello", "en")
		req.NoError(err)
	}

	projector := NewProjector(messages, time.Hour)
	summary, err := projector.Project(conv.ID, alice)
	req.NoError(err)
	req.Equal(3, summary.UnreadCount)
	req.NotNil(summary.LastMessage)
	req.Equal(bob, summary.LastMessage.SenderID)
}

func Test_Project_For_Unauthenticated_Viewer(t *testing.T) {
	req := require.New(t)
	conversations, messages := setupProjection(t)

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	stored, err := messages.StoreMessage(conv.ID, alice, "anyone home", "en")
	req.NoError(err)

	// The last message is public to the projection; the unread count is not.
	projector := NewProjector(messages, time.Hour)
	summary, err := projector.Project(conv.ID, uuid.Nil)
	req.NoError(err)
	req.Equal(0, summary.UnreadCount)
	req.NotNil(summary.LastMessage)
	req.Equal(stored.ID, summary.LastMessage.ID)
}

func Test_Project_Empty_Conversation(t *testing.T) {
	req := require.New(t)
	conversations, messages := setupProjection(t)

	alice := uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice})
	req.NoError(err)

	projector := NewProjector(messages, 0) // Falls back to DefaultLookback
	summary, err := projector.Project(conv.ID, alice)
	req.NoError(err)
	req.Nil(summary.LastMessage)
	req.Equal(0, summary.UnreadCount)
}

func Test_Messages_Outside_The_Lookback_Are_Not_Counted(t *testing.T) {
	req := require.New(t)
	conversations, messages := setupProjection(t)

	alice, bob := uuid.New(), uuid.New()
	conv, err := conversations.CreateConversation([]uuid.UUID{alice, bob})
	req.NoError(err)

	_, err = messages.StoreMessage(conv.ID, bob, "old news", "en")
	req.NoError(err)
	time.Sleep(5 * time.Millisecond)

	// A window this small starts after the write above.
	projector := NewProjector(messages, time.Nanosecond)
	summary, err := projector.Project(conv.ID, alice)
	req.NoError(err)
	req.Equal(0, summary.UnreadCount)
	req.NotNil(summary.LastMessage)
}
