package worker

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/index"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/ingest"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/retrieval"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/tasks"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

type WorkerConfig struct {
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	Concurrency int
	Provider    string

	ChunkSize    int
	ChunkOverlap int
	TopK         int
	Thresholds   retrieval.Thresholds

	// IndexCapacity bounds the number of documents held in memory;
	// zero means unbounded.
	IndexCapacity int
	// IndexTTL expires idle documents; zero keeps them forever.
	IndexTTL time.Duration
}

func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		RedisAddr:   "localhost:6379",
		Concurrency: 10,
		Provider:    "ollama",
		TopK:        retrieval.DefaultTopK,
		Thresholds:  retrieval.DefaultThresholds(),
	}
}

// Worker consumes document Q&A tasks off the queue. The document index
// lives here, so a single worker process must handle the ingest, query
// and info queues for any given deployment.
type Worker struct {
	config WorkerConfig

	rdb         *redis.Client
	asynqServer *asynq.Server

	transport transport.Transport
}

func New(config WorkerConfig) *Worker {
	return &Worker{
		config: config,
	}
}

func (w *Worker) Start() error {
	w.rdb = redis.NewClient(&redis.Options{
		Addr:     w.config.RedisAddr,
		Username: w.config.RedisUsername,
		Password: w.config.RedisPassword,
		DB:       w.config.RedisDB,
	})
	defer w.rdb.Close()

	w.asynqServer = asynq.NewServerFromRedisClient(
		w.rdb,
		asynq.Config{
			Concurrency: w.config.Concurrency,
		},
	)

	w.transport = transport.NewRedisTransport(w.rdb)

	generator, err := provider.NewGenerator(w.config.Provider)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	idxOpts := make([]index.Option, 0, 2)
	if w.config.IndexCapacity > 0 {
		idxOpts = append(idxOpts, index.WithCapacity(w.config.IndexCapacity))
	}
	if w.config.IndexTTL > 0 {
		idxOpts = append(idxOpts, index.WithTTL(w.config.IndexTTL))
	}
	idx := index.New(idxOpts...)

	ingestor := ingest.New(
		ingest.WithChunkSize(w.config.ChunkSize),
		ingest.WithChunkOverlap(w.config.ChunkOverlap),
	)

	ranker := retrieval.NewRanker(retrieval.WithThresholds(w.config.Thresholds))

	handler := tasks.NewHandler(w.transport, idx, ingestor, ranker, generator, w.config.TopK)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeIngest, handler)
	mux.Handle(tasks.TypeQuery, handler)
	mux.Handle(tasks.TypeInfo, handler)

	if err := w.asynqServer.Run(mux); err != nil {
		return err
	}
	return nil
}
