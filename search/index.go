// Package search maintains a full-text index over message bodies so
// participants can search within a conversation. Bluge is the index engine;
// the badger store remains the source of truth and search only returns
// message identifiers to be resolved against it.
package search

import (
	"context"
	"log/slog"

	"stayhub/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds one message to the index. Messages are immutable, so Update
// only ever inserts; using the message id as the document id keeps the
// operation idempotent on replays.
func (m *MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("conversation_id", message.ConversationID.String())).
		AddField(bluge.NewTextField("body", message.Body))
	return m.writer.Update(doc.ID(), doc)
}

// Search returns the ids of messages in the conversation matching the query,
// ranked by relevance.
func (m *MessageIndex) Search(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]uuid.UUID, error) {
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Closing bluge reader failed", "err", err)
		}
	}()

	boolQuery := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(conversationID.String()).SetField("conversation_id")).
		AddMust(bluge.NewMatchQuery(query).SetField("body"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, boolQuery))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if id, err := uuid.ParseBytes(value); err == nil {
					ids = append(ids, id)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
