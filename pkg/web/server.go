// Package web serves the Marvin dashboard: a REST API for commands and
// session control, and websockets that push status, conversation entries
// and UI actions to the browser.
package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/hub"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/router"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/session"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
)

// Hub message types.
const (
	TypeStatus       = "status"
	TypeListening    = "listening"
	TypeConversation = "conversation"
	TypeAction       = "action"
	TypeResult       = "result"
	TypeError        = "error"
)

// Commander handles command text.
type Commander interface {
	Handle(ctx context.Context, input string) (router.Result, error)
	Ask(ctx context.Context, message string) (string, error)
	SetProMode(ctx context.Context, on bool) (string, error)
	ShutDown() bool
}

// Perception is the camera control surface exposed by the API.
type Perception interface {
	StartCamera(ctx context.Context) (bool, error)
	StopCamera() bool
	StartEmotionDetection(ctx context.Context) (perception.EmotionStart, error)
	StopEmotionDetection() bool
	Snapshot() perception.Snapshot
	DetectionLog(ctx context.Context) ([]store.LogEntry, error)
}

// Session exposes the session flags.
type Session interface {
	Flags() session.Flags
}

// Backend are the components the API drives. Any of them may be nil until
// Attach is called; endpoints needing a missing one answer 503.
type Backend struct {
	Commands   Commander
	Perception Perception
	Session    Session
}

// Server is the web dashboard server. It implements router.Display and
// router.Actions.
type Server struct {
	app    *fiber.App
	config *Config
	logger *slog.Logger

	backendMu sync.RWMutex
	backend   Backend
	ctx       context.Context

	conversation *Conversation

	statusHub       *hub.Hub
	conversationHub *hub.Hub
	actionHub       *hub.Hub
	commandHub      *hub.Hub

	listeningMu sync.RWMutex
	listening   string

	hidden atomic.Bool
}

// NewServer creates a new dashboard server.
func NewServer(opts ...Option) *Server {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		config:          cfg,
		logger:          cfg.Logger.With("component", "web"),
		conversation:    NewConversation(cfg.ConversationLimit),
		statusHub:       hub.New("status", cfg.Logger),
		conversationHub: hub.New("conversation", cfg.Logger),
		actionHub:       hub.New("actions", cfg.Logger),
		commandHub:      hub.New("command", cfg.Logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Marvin",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          s.handleError,
	})

	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	api := app.Group("/api")
	api.Post("/command", s.handleCommand)
	api.Post("/ask", s.handleAsk)
	api.Get("/status", s.handleStatus)
	api.Get("/conversation", s.handleConversation)
	api.Get("/detections", s.handleDetections)
	api.Post("/promode", s.handleProMode)
	api.Post("/camera/start", s.handleCameraStart)
	api.Post("/camera/stop", s.handleCameraStop)
	api.Post("/emotion/start", s.handleEmotionStart)
	api.Post("/emotion/stop", s.handleEmotionStop)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/conversation", websocket.New(s.handleConversationWS))
	app.Get("/ws/actions", websocket.New(s.handleActionsWS))
	app.Get("/ws/command", websocket.New(s.handleCommandWS))

	s.app = app
	return s
}

// Attach connects the server to its backend.
func (s *Server) Attach(b Backend) {
	s.backendMu.Lock()
	s.backend = b
	s.backendMu.Unlock()
	s.PublishStatus()
}

func (s *Server) backendSnapshot() Backend {
	s.backendMu.RLock()
	defer s.backendMu.RUnlock()
	return s.backend
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the hubs and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.StartHubs(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.config.Listen)
		errCh <- s.app.Listen(s.config.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(s.config.ShutdownTimeout); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// StartHubs runs the broadcast hubs without serving HTTP.
func (s *Server) StartHubs(ctx context.Context) {
	s.backendMu.Lock()
	s.ctx = ctx
	s.backendMu.Unlock()
	for _, h := range []*hub.Hub{s.statusHub, s.conversationHub, s.actionHub, s.commandHub} {
		go h.Run(ctx)
	}
}

// Conversation returns the conversation log.
func (s *Server) Conversation() *Conversation {
	return s.conversation
}
