package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

// Config is the engine tuning surface. Values come from the optional YAML
// file named by ENGINE_CONFIG_PATH, with environment variables taking
// precedence over both the file and the built-in defaults.
type Config struct {
	JWTSecret string `yaml:"-"`

	Engine struct {
		WeakTopicBias    float64 `yaml:"weak_topic_bias"`
		SourceTextLimit  int     `yaml:"source_text_limit"`
		ExtractTextLimit int     `yaml:"extract_text_limit"`
		SessionListLimit int     `yaml:"session_list_limit"`
	} `yaml:"engine"`

	Dispute struct {
		MaxDisputes        int     `yaml:"max_disputes"`
		AcceptConfidence   float64 `yaml:"accept_confidence"`
		MinArgumentLen     int     `yaml:"min_argument_len"`
		SearchDepth        string  `yaml:"search_depth"`
		SearchMaxResults   int     `yaml:"search_max_results"`
		PropagationWorkers int     `yaml:"propagation_workers"`
	} `yaml:"dispute"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	var cfg Config
	cfg.Engine.WeakTopicBias = 0.7
	cfg.Engine.SourceTextLimit = 10000
	cfg.Engine.ExtractTextLimit = 15000
	cfg.Engine.SessionListLimit = 100
	cfg.Dispute.MaxDisputes = 3
	cfg.Dispute.AcceptConfidence = 0.7
	cfg.Dispute.MinArgumentLen = 30
	cfg.Dispute.SearchDepth = "basic"
	cfg.Dispute.SearchMaxResults = 5
	cfg.Dispute.PropagationWorkers = 4

	if path := envutil.String("ENGINE_CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read engine config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse engine config %s: %w", path, err)
		}
		log.Info("Engine config loaded", "path", path)
	}

	cfg.JWTSecret = envutil.String("JWT_SECRET_KEY", "defaultsecret")
	cfg.Engine.WeakTopicBias = envutil.Float("WEAK_TOPIC_BIAS", cfg.Engine.WeakTopicBias)
	cfg.Engine.SourceTextLimit = envutil.Int("SOURCE_TEXT_LIMIT", cfg.Engine.SourceTextLimit)
	cfg.Engine.ExtractTextLimit = envutil.Int("EXTRACT_TEXT_LIMIT", cfg.Engine.ExtractTextLimit)
	cfg.Engine.SessionListLimit = envutil.Int("SESSION_LIST_LIMIT", cfg.Engine.SessionListLimit)
	cfg.Dispute.MaxDisputes = envutil.Int("MAX_DISPUTES_PER_QUESTION", cfg.Dispute.MaxDisputes)
	cfg.Dispute.AcceptConfidence = envutil.Float("DISPUTE_ACCEPT_CONFIDENCE", cfg.Dispute.AcceptConfidence)
	cfg.Dispute.MinArgumentLen = envutil.Int("DISPUTE_MIN_ARGUMENT_LEN", cfg.Dispute.MinArgumentLen)
	cfg.Dispute.SearchDepth = envutil.String("TAVILY_SEARCH_DEPTH", cfg.Dispute.SearchDepth)
	cfg.Dispute.SearchMaxResults = envutil.Int("TAVILY_MAX_RESULTS", cfg.Dispute.SearchMaxResults)
	cfg.Dispute.PropagationWorkers = envutil.Int("PROPAGATION_WORKERS", cfg.Dispute.PropagationWorkers)

	return cfg, nil
}
