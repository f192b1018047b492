package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyEnv names the environment variable holding the recognition API key.
const APIKeyEnv = "LOGOSPOTS_API_KEY"

// Config is the root configuration structure.
type Config struct {
	API       APIConfig       `json:"api"`
	Detector  DetectorConfig  `json:"detector"`
	Cache     CacheConfig     `json:"cache"`
	Input     InputConfig     `json:"input"`
	Collector CollectorConfig `json:"collector"`
	Fetch     FetchConfig     `json:"fetch"`
	Rating    RatingWeights   `json:"rating"`
	Filters   FilterConfig    `json:"filters"`
	Report    ReportConfig    `json:"report"`
	Pairs     PairsConfig     `json:"pairs"`

	// APIKey is read from the environment, never from the file.
	APIKey string `json:"-"`
}

// APIConfig holds the logo-recognition endpoint settings.
type APIConfig struct {
	Endpoint          string            `json:"endpoint"`
	TokenField        string            `json:"tokenField"` // Form field carrying the API key
	Headers           map[string]string `json:"headers"`
	TimeoutSeconds    int               `json:"timeoutSeconds"`
	RequestsPerSecond float64           `json:"requestsPerSecond"` // 0 disables rate limiting
	Burst             int               `json:"burst"`
	Retry             RetryConfig       `json:"retry"`
}

// RetryConfig controls the explicit, bounded retry of failed requests.
type RetryConfig struct {
	MaxAttempts    int     `json:"maxAttempts"` // 1 means no retry
	InitialDelayMs int     `json:"initialDelayMs"`
	MaxDelayMs     int     `json:"maxDelayMs"`
	BackoffFactor  float64 `json:"backoffFactor"`
}

// DetectorKind selects which recognition backend is queried.
type DetectorKind string

const (
	DetectorAPI    DetectorKind = "api"
	DetectorVision DetectorKind = "vision"
)

// DetectorConfig selects the detector.
type DetectorConfig struct {
	Kind DetectorKind `json:"kind"`
}

// CacheBackend names a durable store for API responses.
type CacheBackend string

const (
	CacheBackendFile   CacheBackend = "file"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendRedis  CacheBackend = "redis"
)

// CacheConfig holds response cache options.
type CacheConfig struct {
	Backend       CacheBackend `json:"backend"`
	Path          string       `json:"path"` // gob file for the file backend
	SQLitePath    string       `json:"sqlitePath"`
	RedisAddr     string       `json:"redisAddr"`
	RedisPassword string       `json:"redisPassword"`
	RedisDB       int          `json:"redisDB"`
	Namespace     string       `json:"namespace"` // Redis key prefix
}

// InputConfig describes the URL list file.
type InputConfig struct {
	CSVPath   string `json:"csvPath"`
	Delimiter string `json:"delimiter"`
}

// CoOccurrenceMode decides whether a logo counts itself among the logos sharing its image.
type CoOccurrenceMode string

const (
	// CoOccurrenceOthers counts the other distinct logos in the image.
	CoOccurrenceOthers CoOccurrenceMode = "others"
	// CoOccurrenceDistinct counts all distinct logos in the image, including itself.
	CoOccurrenceDistinct CoOccurrenceMode = "distinct"
)

// ParseCoOccurrence validates a co-occurrence mode name.
func ParseCoOccurrence(s string) (CoOccurrenceMode, error) {
	switch mode := CoOccurrenceMode(strings.ToLower(s)); mode {
	case CoOccurrenceOthers, CoOccurrenceDistinct:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid co-occurrence mode: %q (expected others or distinct)", s)
	}
}

// CollectorConfig holds observation collection options.
type CollectorConfig struct {
	CoOccurrence CoOccurrenceMode `json:"coOccurrence"`
	Strict       bool             `json:"strict"` // Fail on malformed cached responses instead of skipping them
}

// FetchConfig bounds how much new data a run fetches.
type FetchConfig struct {
	Limit       int `json:"limit"` // Max uncached URLs per run, 0 = all
	Concurrency int `json:"concurrency"`
}

// RatingWeights holds the weights of the composite logo rating.
type RatingWeights struct {
	Frequency float64 `json:"frequency"`
	Area      float64 `json:"area"`
	Clarity   float64 `json:"clarity"`
	Placement float64 `json:"placement"` // centrality x co-occurrence
}

// DefaultRatingWeights returns the standard rating weights.
func DefaultRatingWeights() RatingWeights {
	return RatingWeights{
		Frequency: 0.30,
		Area:      0.25,
		Clarity:   0.25,
		Placement: 0.20,
	}
}

// FilterConfig holds glob filters for image URLs and logo labels.
type FilterConfig struct {
	Include []string    `json:"include"`
	Exclude []string    `json:"exclude"`
	Labels  LabelFilter `json:"labels"`
}

// LabelFilter holds glob filters applied to logo classes.
type LabelFilter struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ReportConfig holds report defaults.
type ReportConfig struct {
	Top           int      `json:"top"`
	ChartFeatures []string `json:"chartFeatures"`
}

// PairsConfig holds logo pair co-occurrence options.
type PairsConfig struct {
	MinSharedImages  int     `json:"minSharedImages"`
	MinJaccard       float64 `json:"minJaccard"`
	MaxLogosPerImage int     `json:"maxLogosPerImage"` // Images with more distinct logos are not paired
	TopPairs         int     `json:"topPairs"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			TokenField:        "Token",
			Headers:           map[string]string{},
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			Burst:             1,
			Retry: RetryConfig{
				MaxAttempts:    1,
				InitialDelayMs: 500,
				MaxDelayMs:     10000,
				BackoffFactor:  2.0,
			},
		},
		Detector: DetectorConfig{
			Kind: DetectorAPI,
		},
		Cache: CacheConfig{
			Backend:    CacheBackendFile,
			Path:       "responses.gob",
			SQLitePath: "responses.db",
			RedisAddr:  "localhost:6379",
			Namespace:  "logospots",
		},
		Input: InputConfig{
			CSVPath:   "images.csv",
			Delimiter: ",",
		},
		Collector: CollectorConfig{
			CoOccurrence: CoOccurrenceOthers,
		},
		Fetch: FetchConfig{
			Limit:       0,
			Concurrency: 4,
		},
		Rating: DefaultRatingWeights(),
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Report: ReportConfig{
			Top:           10,
			ChartFeatures: []string{"rating", "frequency", "centrality"},
		},
		Pairs: PairsConfig{
			MinSharedImages:  2,
			MinJaccard:       0.1,
			MaxLogosPerImage: 20,
			TopPairs:         50,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// The API key is taken from the environment, after loading a .env file if present.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env is the normal case.
	_ = godotenv.Load()
	cfg.APIKey = os.Getenv(APIKeyEnv)

	if path == "" {
		// Try default locations
		candidates := []string{".logospots.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".logospots.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".logospots.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	mode, err := ParseCoOccurrence(string(c.Collector.CoOccurrence))
	if err != nil {
		return fmt.Errorf("collector.coOccurrence: %w", err)
	}
	c.Collector.CoOccurrence = mode
	return nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
