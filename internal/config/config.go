package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Mongo      Mongo         `yaml:"mongo"`
	JwtTTL     time.Duration `yaml:"jwt_ttl"`     // max accepted admin token age
	PageSize   int           `yaml:"page_size"`   // announcements per feed page
	BulkChunk  int           `yaml:"bulk_chunk"`  // mutations per atomic batch
	SessionTTL time.Duration `yaml:"session_ttl"` // idle feed sessions are dropped after this
	CORSOrigin string        `yaml:"cors_origin"`
	LogLevel   string        `yaml:"log_level"`
	LogJSON    bool          `yaml:"log_json"`
}

type Mongo struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

const (
	defaultPageSize  = 10
	defaultBulkChunk = 450
	// hard per-transaction limit of the backing store
	maxBulkChunk = 500
)

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	applyDefaults(&public)

	return &Config{public, private}
}

func applyDefaults(p *Public) {
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.BulkChunk <= 0 {
		p.BulkChunk = defaultBulkChunk
	}
	if p.BulkChunk > maxBulkChunk {
		p.BulkChunk = maxBulkChunk
	}
	if p.SessionTTL <= 0 {
		p.SessionTTL = 30 * time.Minute
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}
