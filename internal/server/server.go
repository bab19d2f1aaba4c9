// Package server exposes the palindrome finder over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aryankumar/parbench/internal/palindrome"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultAddr is where serve listens unless told otherwise
const DefaultAddr = "127.0.0.1:8000"

// Config holds the server settings
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the stock server settings
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server is the toy palindrome endpoint. It keeps no state between requests.
type Server struct {
	app    *fiber.App
	config Config
	logger *slog.Logger
}

// New creates the server and registers its routes
func New(config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "parbench",
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{app: app, config: config, logger: logger}
	s.app.Use(fiberrecover.New())
	s.app.Get("/longest-palindrome/:input", s.longestPalindrome)
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr)
		errCh <- s.app.Listen(s.config.Addr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		return s.app.ShutdownWithTimeout(s.config.ShutdownTimeout)
	case err := <-errCh:
		return err
	}
}

func (s *Server) longestPalindrome(c *fiber.Ctx) error {
	input := c.Params("input")
	result := palindrome.Longest(input)

	s.logger.Debug("palindrome request", "input_len", len(input), "result_len", len(result))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(result)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(err.Error())
}
