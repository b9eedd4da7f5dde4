package main

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type serverConfig struct {
	ListenHost  string `yaml:"listen_host"`
	ListenPort  int    `yaml:"listen_port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type workerConfig struct {
	Workers  int    `yaml:"workers"`
	Provider string `yaml:"provider"`
}

type thresholdsConfig struct {
	Floor    float64 `yaml:"floor"`
	TopRatio float64 `yaml:"top_ratio"`
	MinMean  float64 `yaml:"min_mean"`
	Citation float64 `yaml:"citation"`
}

type retrievalConfig struct {
	ChunkSize    int               `yaml:"chunk_size"`
	ChunkOverlap int               `yaml:"chunk_overlap"`
	TopK         int               `yaml:"top_k"`
	Thresholds   *thresholdsConfig `yaml:"thresholds"`
}

type indexConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

type config struct {
	Server serverConfig `yaml:"server"`
	Worker workerConfig `yaml:"worker"`

	Transport redisConfig `yaml:"transport"`

	Retrieval retrievalConfig `yaml:"retrieval"`
	Index     indexConfig     `yaml:"index"`
}

func ReadConfig(path string) (*config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf config
	if err := yaml.Unmarshal(file, &conf); err != nil {
		return nil, err
	}

	return &conf, nil
}
