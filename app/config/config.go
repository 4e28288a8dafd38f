package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Logs     LogConfig
	DB       PostgresConfig
	Engine   EngineConfig
	Analysis AnalysisConfig
	Explorer ExplorerConfig
	QueueURL string
}

type LogConfig struct {
	Style string // "console" or "json"
	Level string
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

type EngineConfig struct {
	Path        string
	MoveTime    int
	DepthOrTime bool //true for depth, false for time
	Depth       int
	PoolSize    int //how many engine processes to keep alive
}

type AnalysisConfig struct {
	ThresholdCP    int    //margin over the best alternative that makes a move critical
	VariationDepth int    //plies to walk per candidate
	CandidateCount int    //candidate moves per opening position
	SnapshotDir    string //where per-ply SVGs land; empty disables rendering
}

type ExplorerConfig struct {
	URL string //opening explorer base URL; empty uses the Lichess masters default
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		QueueURL: os.Getenv("QUEUE_URL"),
		Logs: LogConfig{
			Style: os.Getenv("LOG_STYLE"),
			Level: os.Getenv("LOG_LEVEL"),
		},
		DB: PostgresConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			URL:      os.Getenv("POSTGRES_URL"),
			Port:     os.Getenv("POSTGRES_PORT"),
		},
		Engine: EngineConfig{
			Path:        os.Getenv("ENGINE_PATH"),
			MoveTime:    intFromEnv("ENGINE_MOVE_TIME", 500),
			Depth:       intFromEnv("ENGINE_DEPTH", 12),
			DepthOrTime: boolFromEnv("ENGINE_DEPTH_OR_TIME", false),
			PoolSize:    intFromEnv("ENGINE_POOL_SIZE", 1),
		},
		Analysis: AnalysisConfig{
			ThresholdCP:    intFromEnv("ANALYSIS_THRESHOLD", 50),
			VariationDepth: intFromEnv("VARIATION_DEPTH", 5),
			CandidateCount: intFromEnv("CANDIDATE_COUNT", 3),
			SnapshotDir:    os.Getenv("SNAPSHOT_DIR"),
		},
		Explorer: ExplorerConfig{
			URL: os.Getenv("EXPLORER_URL"),
		},
	}

	return cfg, nil
}

// SetupLogger configures the global zerolog logger from LOG_STYLE/LOG_LEVEL.
func SetupLogger(cfg LogConfig) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Style, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// intFromEnv reads an int env var, falling back to def when unset and
// dying when set but unparseable.
func intFromEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatal().Err(err).Msgf("Error converting string to int: %s", key)
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatal().Err(err).Msgf("Error parsing %s", key)
	}
	return b
}
