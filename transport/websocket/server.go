package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

const (
	actionNewGame = "game:new"
	actionWatch   = "game:watch"
	actionClick   = "game:click"
	actionSelect  = "game:select"
	actionReset   = "game:reset"
	actionError   = "error"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Click(ctx context.Context, id string, x, y int) (*entity.Game, checkers.Outcome, error)
	SelectOrMove(ctx context.Context, id string, row, col int) (*entity.Game, checkers.Outcome, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
}

type handler func(ctx context.Context, conn *websocket.Conn, msg *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	handlers map[string]handler

	// watchers holds the connections following each game.
	watchers      map[string]map[*websocket.Conn]struct{}
	watchersMutex sync.RWMutex
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger,
		gameUseCase: gameUseCase,

		handlers: make(map[string]handler),
		watchers: make(map[string]map[*websocket.Conn]struct{}),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionWatch] = server.handleWatch
	server.handlers[actionClick] = server.handleClick
	server.handlers[actionSelect] = server.handleSelect
	server.handlers[actionReset] = server.handleReset

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server. It stops when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := websocket.Accept(writer, req, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}

	defer conn.CloseNow()
	defer that.unwatchAll(conn)

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.handleMessages(req.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}

			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(ctx, conn, actionError, "invalid message"); err != nil {
				return err
			}

			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(ctx, conn, message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handle(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) watch(gameID string, conn *websocket.Conn) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	conns, ok := that.watchers[gameID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		that.watchers[gameID] = conns
	}

	conns[conn] = struct{}{}
}

func (that *Server) unwatchAll(conn *websocket.Conn) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	for gameID, conns := range that.watchers {
		delete(conns, conn)

		if len(conns) == 0 {
			delete(that.watchers, gameID)
		}
	}
}

func (that *Server) forget(gameID string) {
	that.watchersMutex.Lock()
	delete(that.watchers, gameID)
	that.watchersMutex.Unlock()
}

// broadcast sends a game update to every connection watching the game.
func (that *Server) broadcast(ctx context.Context, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "action", action)

	gameID := payload.gameID()

	that.watchersMutex.RLock()
	conns := make([]*websocket.Conn, 0, len(that.watchers[gameID]))
	for conn := range that.watchers[gameID] {
		conns = append(conns, conn)
	}
	that.watchersMutex.RUnlock()

	for _, conn := range conns {
		if err := that.sendMessage(ctx, conn, action, payload); err != nil {
			log.Warn("failed to send game update", "gameID", gameID, "error", err)
		}
	}
}
