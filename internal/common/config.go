package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Batch      BatchConfig      `yaml:"batch"`
	Repair     RepairConfig     `yaml:"repair"`
	OCR        OCRConfig        `yaml:"ocr"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Ledger     LedgerConfig     `yaml:"ledger"`
}

// PathsConfig holds the input directory and the three output roots.
type PathsConfig struct {
	InputDir    string `yaml:"input_dir"`
	RepairedDir string `yaml:"repaired_dir"`
	OCRDir      string `yaml:"ocr_dir"`
	ErrorDir    string `yaml:"error_dir"` // empty disables quarantine
}

// BatchConfig holds orchestration knobs.
type BatchConfig struct {
	Limit      int    `yaml:"limit"` // 0 = unlimited
	SkipHidden bool   `yaml:"skip_hidden"`
	Collision  string `yaml:"collision"` // "suffix" | "error"
	ReportPath string `yaml:"report_path"`
}

// RepairConfig holds structural-repair configuration
type RepairConfig struct {
	Candidates []string `yaml:"candidates"`
	Preset     string   `yaml:"preset"`
	Verify     bool     `yaml:"verify"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine      string   `yaml:"engine"` // "gosseract" | "tesseract-cli"
	DPI         int      `yaml:"dpi"`
	Languages   []string `yaml:"languages"`
	Tesseract   string   `yaml:"tesseract"`
	TessdataDir string   `yaml:"tessdata_dir"`
}

// ClassifierConfig holds zero-shot classifier configuration
type ClassifierConfig struct {
	Provider    string        `yaml:"provider"` // "zeroshot" | "openai"
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LedgerConfig holds the optional outcome ledger
type LedgerConfig struct {
	DSN string `yaml:"dsn"` // empty disables; postgres:// or a sqlite path
}

const (
	CollisionSuffix = "suffix"
	CollisionError  = "error"

	EngineGosseract    = "gosseract"
	EngineTesseractCLI = "tesseract-cli"

	ProviderZeroShot = "zeroshot"
	ProviderOpenAI   = "openai"
)

// LoadConfig loads configuration from .env, environment variables and an
// optional YAML file, in that order of increasing precedence.
func LoadConfig(yamlPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, WrapError(err, "load .env")
	}

	cfg := &Config{
		Paths: PathsConfig{
			InputDir:    getEnv("DOCSORT_INPUT_DIR", "./data/pdfs"),
			RepairedDir: getEnv("DOCSORT_REPAIRED_DIR", "./sorted_data/repaired"),
			OCRDir:      getEnv("DOCSORT_OCR_DIR", "./sorted_data/ocr_texts"),
			ErrorDir:    getEnv("DOCSORT_ERROR_DIR", "./sorted_data/error"),
		},
		Batch: BatchConfig{
			Limit:      getEnvAsInt("DOCSORT_LIMIT", 50),
			SkipHidden: getEnvAsBool("DOCSORT_SKIP_HIDDEN", false),
			Collision:  getEnv("DOCSORT_COLLISION", CollisionSuffix),
			ReportPath: getEnv("DOCSORT_REPORT", ""),
		},
		Repair: RepairConfig{
			Candidates: getEnvAsList("DOCSORT_GS_CANDIDATES", []string{"gswin64c", "gswin32c", "gs"}),
			Preset:     getEnv("DOCSORT_GS_PRESET", "prepress"),
			Verify:     getEnvAsBool("DOCSORT_VERIFY_REPAIRED", true),
		},
		OCR: OCRConfig{
			Engine:      getEnv("DOCSORT_OCR_ENGINE", EngineGosseract),
			DPI:         getEnvAsInt("DOCSORT_OCR_DPI", 200),
			Languages:   getEnvAsList("DOCSORT_OCR_LANGS", []string{"hin", "eng"}),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Classifier: classifierDefaults(getEnv("DOCSORT_CLASSIFIER", ProviderZeroShot)),
		Ledger: LedgerConfig{
			DSN: getEnv("DOCSORT_LEDGER_DSN", ""),
		},
	}

	if yamlPath != "" {
		b, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, WrapError(err, "read config file")
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse %s", yamlPath), err)
		}
	}
	return cfg, nil
}

// SetProvider switches the classifier provider, resetting endpoint, model and
// key to that provider's environment defaults. Unknown providers are kept as
// given so Validate reports them.
func (c *Config) SetProvider(provider string) {
	if provider == c.Classifier.Provider {
		return
	}
	c.Classifier = classifierDefaults(provider)
}

func classifierDefaults(provider string) ClassifierConfig {
	cc := ClassifierConfig{
		Provider:    provider,
		Endpoint:    getEnv("DOCSORT_ZEROSHOT_URL", "https://api-inference.huggingface.co/models"),
		Model:       getEnv("DOCSORT_ZEROSHOT_MODEL", "microsoft/mdeberta-v3-base"),
		APIKey:      getEnv("HF_API_TOKEN", ""),
		Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
		Timeout:     getEnvAsDuration("DOCSORT_CLASSIFIER_TIMEOUT", 45*time.Second),
	}
	if provider == ProviderOpenAI {
		cc.Endpoint = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
		cc.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")
		cc.APIKey = getEnv("OPENAI_API_KEY", "")
	}
	return cc
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits on commas or '+', so "hin+eng" and "gs,gswin64c" both work.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '+' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("paths.input_dir", c.Paths.InputDir, Required).
		Field("paths.repaired_dir", c.Paths.RepairedDir, Required).
		Field("paths.ocr_dir", c.Paths.OCRDir, Required).
		Field("ocr.dpi", c.OCR.DPI, Positive).
		Field("ocr.languages", c.OCR.Languages, NonEmptyList).
		Field("repair.candidates", c.Repair.Candidates, NonEmptyList).
		Field("batch.limit", c.Batch.Limit, NonNegative).
		Field("batch.collision", c.Batch.Collision, OneOf(CollisionSuffix, CollisionError)).
		Field("ocr.engine", c.OCR.Engine, OneOf(EngineGosseract, EngineTesseractCLI)).
		Field("classifier.provider", c.Classifier.Provider, OneOf(ProviderZeroShot, ProviderOpenAI))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
