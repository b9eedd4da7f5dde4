package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/retrieval"
	"github.com/Sanmukapriya/NotebookLM-Clone/server"
	"github.com/Sanmukapriya/NotebookLM-Clone/worker"
)

const (
	ProgramName   = "DocQA"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/Sanmukapriya/NotebookLM-Clone"
)

type serveCmd struct{}

type workerCmd struct{}

type args struct {
	Server *serveCmd  `arg:"subcommand:serve" help:"start the DocQA API server"`
	Worker *workerCmd `arg:"subcommand:work" help:"start the DocQA worker"`

	Config string `arg:"--config,-c" default:"docqa.yaml" help:"path to the configuration file"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: strings.ToLower(ProgramName)}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	if p.Subcommand() == nil {
		p.WriteUsage(os.Stdout)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	conf, err := ReadConfig(args.Config)
	if err != nil {
		slog.Warn("failed to read config file, using defaults", "path", args.Config, "err", err)
		conf = &config{}
	}

	var cmd func(*config) error

	switch p.Subcommand().(type) {
	case *serveCmd:
		cmd = startServer
	case *workerCmd:
		cmd = startWorker
	default:
		p.FailSubcommand("unrecognized command", p.SubcommandNames()...)
	}

	if err := cmd(conf); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func startServer(conf *config) error {
	sc := server.DefaultConfig()
	if conf.Server.ListenHost != "" {
		sc.ListenHost = conf.Server.ListenHost
	}
	if conf.Server.ListenPort > 0 {
		sc.ListenPort = conf.Server.ListenPort
	}
	if conf.Server.MaxUploadMB > 0 {
		sc.MaxUploadSize = int64(conf.Server.MaxUploadMB) << 20
	}
	if conf.Transport.Addr != "" {
		sc.RedisAddr = conf.Transport.Addr
	}
	sc.RedisUsername = conf.Transport.Username
	sc.RedisPassword = conf.Transport.Password
	sc.RedisDB = conf.Transport.DB

	if conf.Worker.Provider != "" {
		sc.Provider = conf.Worker.Provider
	}

	srv := server.New(sc)
	return srv.Serve()
}

func startWorker(conf *config) error {
	wc := worker.DefaultConfig()
	if conf.Transport.Addr != "" {
		wc.RedisAddr = conf.Transport.Addr
	}
	wc.RedisUsername = conf.Transport.Username
	wc.RedisPassword = conf.Transport.Password
	wc.RedisDB = conf.Transport.DB

	if conf.Worker.Workers > 0 {
		wc.Concurrency = conf.Worker.Workers
	}
	if conf.Worker.Provider != "" {
		wc.Provider = conf.Worker.Provider
	}

	wc.ChunkSize = conf.Retrieval.ChunkSize
	wc.ChunkOverlap = conf.Retrieval.ChunkOverlap
	if conf.Retrieval.TopK > 0 {
		wc.TopK = conf.Retrieval.TopK
	}
	if t := conf.Retrieval.Thresholds; t != nil {
		wc.Thresholds = retrieval.Thresholds{
			Floor:    t.Floor,
			TopRatio: t.TopRatio,
			MinMean:  t.MinMean,
			Citation: t.Citation,
		}
	}

	wc.IndexCapacity = conf.Index.Capacity
	wc.IndexTTL = conf.Index.TTL

	w := worker.New(wc)
	return w.Start()
}
