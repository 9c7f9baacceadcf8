package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"stayhub/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default())
}

func message(conversationID uuid.UUID, body string) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       uuid.New(),
		Body:           body,
		SentAt:         time.Now().UTC(),
	}
}

func Test_Search_Finds_Indexed_Messages(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	conv := uuid.New()

	wanted := message(conv, "the keys are under the blue flowerpot")
	req.NoError(index.Index(wanted))
	req.NoError(index.Index(message(conv, "see you at the station")))

	ids, err := index.Search(context.Background(), conv, "flowerpot", 10)
	req.NoError(err)
	req.Equal([]uuid.UUID{wanted.ID}, ids)
}

func Test_Search_Is_Scoped_To_The_Conversation(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	convA, convB := uuid.New(), uuid.New()

	inA := message(convA, "checkout is at noon")
	req.NoError(index.Index(inA))
	req.NoError(index.Index(message(convB, "checkout is at noon")))

	ids, err := index.Search(context.Background(), convA, "checkout", 10)
	req.NoError(err)
	req.Equal([]uuid.UUID{inA.ID}, ids)
}

func Test_Search_Honors_The_Limit(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	conv := uuid.New()

	for i := 0; i < 5; i++ {
		req.NoError(index.Index(message(conv, "parking instructions attached")))
	}

	ids, err := index.Search(context.Background(), conv, "parking", 2)
	req.NoError(err)
	req.Len(ids, 2)
}

func Test_Search_With_No_Match_Returns_Empty(t *testing.T) {
	req := require.New(t)
	index := openTestIndex(t)
	conv := uuid.New()

	req.NoError(index.Index(message(conv, "welcome!")))

	ids, err := index.Search(context.Background(), conv, "refund", 10)
	req.NoError(err)
	req.Empty(ids)
}
