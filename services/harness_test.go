package services

import (
	"log/slog"
	"testing"
	"time"

	"stayhub/auth"
	"stayhub/domain"
	"stayhub/moderation"
	"stayhub/observability"
	"stayhub/projection"
	"stayhub/repositories"
	"stayhub/search"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// testEnv wires the whole service stack over throwaway stores, the same
// way main does, minus the HTTP layer.
type testEnv struct {
	users         repositories.IUserRepository
	conversations *ConversationService
	messages      *MessageService
	stays         *StayService
	auth          IAuthService
}

func newTestEnv(t *testing.T, censoredWords ...string) *testEnv {
	t.Helper()
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	users := repositories.NewUserRepository(db)
	conversations := repositories.NewConversationRepository(db, log)
	messages, err := repositories.NewMessageRepository(db, log, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = messages.Close() })
	stays := repositories.NewStayRepository(db, log)

	filter, err := moderation.NewFilter(censoredWords, '*')
	require.NoError(t, err)
	index := search.NewMessageIndex(writer, log)
	stats := observability.NewManager(log)
	projector := projection.NewProjector(messages, time.Hour)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	return &testEnv{
		users:         users,
		conversations: NewConversationService(conversations, messages, users, projector, log),
		messages:      NewMessageService(messages, conversations, users, filter, index, stats, log),
		stays:         NewStayService(stays, users, log),
		auth:          NewAuthService(users, issuer),
	}
}

func (e *testEnv) user(t *testing.T, firstName string, role domain.Role) domain.User {
	t.Helper()
	user, err := e.users.CreateUser(domain.User{
		Email:     firstName + "@example.com",
		FirstName: firstName,
		LastName:  "Tester",
		Role:      role,
	})
	require.NoError(t, err)
	return user
}
