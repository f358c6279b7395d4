// Package httpapi serves the document Q&A session over a JSON HTTP API.
package httpapi

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/custodia-labs/finqa/internal/logger"
)

// DefaultAddr is the listen address used by `finqa serve`.
const DefaultAddr = "127.0.0.1:8080"

// bodySlack covers multipart framing on top of the upload limit.
const bodySlack = 1 << 20

// Config holds server options.
type Config struct {
	// MaxUploadBytes bounds the request body. Zero keeps fiber's default.
	MaxUploadBytes int64
}

// Server is the HTTP API for a single session.
type Server struct {
	app *fiber.App
}

// NewServer creates a server and registers all routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if ports == nil {
		return nil, fmt.Errorf("validating ports: %w", ErrMissingDocumentService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	// Questions outlive the request in the session history, so values
	// read from the request must not alias fasthttp's buffers.
	fcfg := fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		Immutable:             true,
	}
	if cfg.MaxUploadBytes > 0 {
		fcfg.BodyLimit = int(cfg.MaxUploadBytes) + bodySlack
	}

	var (
		app         = fiber.New(fcfg)
		check       = CheckHandler{}
		docHandler  = NewDocumentHandler(ports.Document)
		chatHandler = NewChatHandler(ports.Chat, ports.Document, ports.Limiter)
	)
	app.Use(recover.New())

	checks := app.Group("/check")
	checks.Get("/healthy", check.HandleHealthy)

	apiv1 := app.Group("/api/v1")
	apiv1.Post("/document", docHandler.HandleUpload)
	apiv1.Get("/document", docHandler.HandleGet)
	apiv1.Get("/document/text", docHandler.HandleText)
	apiv1.Delete("/document", docHandler.HandleDelete)
	apiv1.Post("/ask", chatHandler.HandleAsk)
	apiv1.Get("/status", chatHandler.HandleStatus)
	apiv1.Get("/history", chatHandler.HandleHistory)
	apiv1.Delete("/history", chatHandler.HandleClear)

	return &Server{app: app}, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("http: listening on %s", addr)
	return s.app.Listen(addr)
}
