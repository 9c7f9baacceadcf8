package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stayhub/api"
	"stayhub/auth"
	"stayhub/moderation"
	"stayhub/observability"
	"stayhub/projection"
	"stayhub/repositories"
	"stayhub/search"
	"stayhub/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern ensures all 'defer' statements (like database cleanup) are executed before the
// program exits, and keeps the initialization logic testable outside main.
func run() (int, error) {
	// 1. Configuration & Logger
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	censoredChar, err := censoredRune(config.CensoredChar)
	if err != nil {
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (Bluge)
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Moderation word list
	censoredWords, err := loadCensoredWords(config.CensoredWordsFile)
	if err != nil {
		return exitConfig, err
	}
	filter, err := moderation.NewFilter(censoredWords, censoredChar)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderation filter: %w", err)
	}

	// 5. Repositories, projections, services
	stats := observability.NewManager(log)
	userRepository := repositories.NewUserRepository(db)
	conversationRepository := repositories.NewConversationRepository(db, log)
	messageRepository, err := repositories.NewMessageRepository(db, log, config.LimitMessages)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = messageRepository.Close() }()
	stayRepository := repositories.NewStayRepository(db, log)

	messageIndex := search.NewMessageIndex(blugeWriter, log)
	projector := projection.NewProjector(messageRepository, config.UnreadLookback)
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)

	authService := services.NewAuthService(userRepository, issuer)
	messageService := services.NewMessageService(
		messageRepository, conversationRepository, userRepository,
		filter, messageIndex, stats, log,
	)
	conversationService := services.NewConversationService(
		conversationRepository, messageRepository, userRepository, projector, log,
	)
	stayService := services.NewStayService(stayRepository, userRepository, log)

	handler := api.NewHandler(
		authService, conversationService, messageService, stayService,
		userRepository, stats, log,
	)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go stats.Report(ctx, config.StatsInterval)

	// 7. HTTP server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: handler.Router(issuer),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return exitRuntime, err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Program stopped cleanly")

	return exitOK, nil
}

func censoredRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSORED_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}

// loadCensoredWords reads one word per line; an unset path disables
// moderation rather than failing startup.
func loadCensoredWords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("censored words file: %w", err)
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}
