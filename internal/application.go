package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/checkers-backend/internal/config"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
	"github.com/rocketscienceinc/checkers-backend/internal/repository"
	"github.com/rocketscienceinc/checkers-backend/internal/repository/storage"
	"github.com/rocketscienceinc/checkers-backend/internal/usecase"
	"github.com/rocketscienceinc/checkers-backend/transport/rest"
	"github.com/rocketscienceinc/checkers-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	log.Info("Connected to redis", "redis", conf.Redis.String(), "gameTTL", conf.GameTTL)

	layout, err := loadLayout(conf)
	if err != nil {
		return err
	}

	if layout != nil {
		log.Info("Using custom starting position", "file", conf.Board.LayoutFile, "pieces", len(layout.Pieces))
	}

	gameRepo := repository.NewGameRepository(redisStorage, conf.GameTTL)
	gameUseCase := usecase.NewGameManager(logger, conf.Settings(), layout, gameRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameUseCase).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameUseCase).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func loadLayout(conf *config.Config) (*entity.Layout, error) {
	if conf.Board.LayoutFile == "" {
		return nil, nil //nolint: nilnil // no custom layout configured
	}

	layout, err := entity.ReadLayoutFile(conf.Board.LayoutFile)
	if err != nil {
		return nil, fmt.Errorf("could not load starting position: %w", err)
	}

	// fail at startup rather than on the first game
	board := entity.NewEmptyBoard(conf.Settings())
	if err = layout.Setup(board); err != nil {
		return nil, fmt.Errorf("invalid starting position: %w", err)
	}

	return layout, nil
}
