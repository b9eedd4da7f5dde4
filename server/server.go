package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

type ServerConfig struct {
	ListenHost string
	ListenPort int

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// MaxUploadSize caps the accepted document size in bytes.
	MaxUploadSize int64

	// Provider names the generation backend health checks probe; it must
	// match the worker's provider.
	Provider string
}

func DefaultConfig() ServerConfig {
	return ServerConfig{
		ListenPort:    8080,
		RedisAddr:     "localhost:6379",
		MaxUploadSize: 50 << 20,
		Provider:      "ollama",
	}
}

// Server exposes the document Q&A API over HTTP. It enqueues every request
// as a task and relays the worker's message stream back to the caller, so
// it holds no document state of its own.
type Server struct {
	config ServerConfig

	rdb *redis.Client

	transport   transport.Transport
	asynqClient *asynq.Client
	generator   provider.Generator
}

func New(config ServerConfig) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Serve() error {
	lisAddr := fmt.Sprintf("%s:%d", s.config.ListenHost, s.config.ListenPort)

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.config.RedisAddr,
		Username: s.config.RedisUsername,
		Password: s.config.RedisPassword,
		DB:       s.config.RedisDB,
	})
	defer rdb.Close()
	s.rdb = rdb

	s.transport = transport.NewRedisTransport(rdb)

	client := asynq.NewClientFromRedisClient(rdb)
	defer client.Close()
	s.asynqClient = client

	generator, err := provider.NewGenerator(s.config.Provider)
	if err != nil {
		slog.Warn("unrecognized provider, health checks will report unknown", "provider", s.config.Provider)
	}
	s.generator = generator

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/documents/{id}", s.handleDocumentInfo)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	srv := &http.Server{
		Addr:              lisAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server starting", "listener", lisAddr)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("failed to serve", "err", err)
		return err
	}
	return nil
}
