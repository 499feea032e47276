package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/google/uuid"

	"github.com/example/meetingroom-booking/internal/application"
	"github.com/example/meetingroom-booking/internal/config"
	httptransport "github.com/example/meetingroom-booking/internal/http"
	"github.com/example/meetingroom-booking/internal/jobs"
	"github.com/example/meetingroom-booking/internal/persistence"
	"github.com/example/meetingroom-booking/internal/persistence/sqlite"
)

// storage is the full repository surface the services need. Both the
// in-memory store and the SQLite store satisfy it.
type storage interface {
	persistence.UserRepository
	persistence.RoomRepository
	persistence.BookingRepository
	persistence.MinutesRepository
	persistence.SessionRepository
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, cleanup, err := openStorage(cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	roomService := application.NewRoomServiceWithLogger(store, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(store, store, idGenerator, now, logger)
	bookingService.ConfigureAvailabilityCache(cfg.AvailabilityCacheTTL, 0)
	roomService.SetAvailabilityInvalidator(bookingService.InvalidateAvailability)
	minutesService := application.NewMinutesServiceWithLogger(store, store, idGenerator, now, logger)
	userService := application.NewUserService(store, idGenerator, now)
	authService := application.NewAuthServiceWithLogger(store, store, application.VerifyPassword, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Users:       httptransport.NewUserHandler(userService, logger),
		Rooms:       httptransport.NewRoomHandler(roomService, bookingService, logger),
		Booking:     httptransport.NewBookingHandler(bookingService, minutesService, logger),
		SessionAuth: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			corsMiddleware(cfg),
		},
	})

	sweeper := jobs.NewSweeper(bookingService, authService, jobs.WithLogger(logger))
	if err := sweeper.Start(ctx); err != nil {
		logger.Error("failed to start maintenance sweeper", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr, "driver", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStorage selects the repository backend from configuration and returns
// it with a close function.
func openStorage(cfg config.Config) (storage, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return persistence.NewMemoryStore(), func() error { return nil }, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			closeErr := store.Close()
			return nil, nil, errors.Join(err, closeErr)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func corsMiddleware(cfg config.Config) func(http.Handler) http.Handler {
	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Session-Token"}),
		gorillahandlers.ExposedHeaders([]string{"X-Session-Token"}),
		gorillahandlers.AllowCredentials(),
	)
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
