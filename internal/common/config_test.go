package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "./data/pdfs", cfg.Paths.InputDir)
	assert.Equal(t, "./sorted_data/repaired", cfg.Paths.RepairedDir)
	assert.Equal(t, "./sorted_data/ocr_texts", cfg.Paths.OCRDir)
	assert.Equal(t, "./sorted_data/error", cfg.Paths.ErrorDir)
	assert.Equal(t, 50, cfg.Batch.Limit)
	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, []string{"hin", "eng"}, cfg.OCR.Languages)
	assert.Equal(t, []string{"gswin64c", "gswin32c", "gs"}, cfg.Repair.Candidates)
	assert.Equal(t, CollisionSuffix, cfg.Batch.Collision)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvThenYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DOCSORT_LIMIT", "7")
	t.Setenv("DOCSORT_OCR_LANGS", "eng+deu")
	t.Setenv("DOCSORT_GS_CANDIDATES", "gs, gsc")

	yamlPath := filepath.Join(dir, "docsort.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
paths:
  input_dir: /in
batch:
  collision: error
classifier:
  timeout: 5s
`), 0o644))

	cfg, err := LoadConfig(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Batch.Limit)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, []string{"gs", "gsc"}, cfg.Repair.Candidates)
	assert.Equal(t, "/in", cfg.Paths.InputDir)
	assert.Equal(t, "./sorted_data/repaired", cfg.Paths.RepairedDir)
	assert.Equal(t, CollisionError, cfg.Batch.Collision)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCSORT_OCR_DPI=300\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DOCSORT_OCR_DPI") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.OCR.DPI)
}

func TestConfigValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"missing input dir", func(c *Config) { c.Paths.InputDir = " " }, "paths.input_dir"},
		{"zero dpi", func(c *Config) { c.OCR.DPI = 0 }, "ocr.dpi"},
		{"negative limit", func(c *Config) { c.Batch.Limit = -1 }, "batch.limit"},
		{"overwrite collision", func(c *Config) { c.Batch.Collision = "overwrite" }, "batch.collision"},
		{"unknown engine", func(c *Config) { c.OCR.Engine = "easyocr" }, "ocr.engine"},
		{"no candidates", func(c *Config) { c.Repair.Candidates = nil }, "repair.candidates"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tc.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestSetProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("HF_API_TOKEN", "hf-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, ProviderZeroShot, cfg.Classifier.Provider)
	assert.Equal(t, "hf-env", cfg.Classifier.APIKey)

	cfg.SetProvider(ProviderOpenAI)
	assert.Equal(t, ProviderOpenAI, cfg.Classifier.Provider)
	assert.Equal(t, "sk-env", cfg.Classifier.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.Classifier.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Classifier.Endpoint)

	cfg.Classifier.Model = "custom"
	cfg.SetProvider(ProviderOpenAI)
	assert.Equal(t, "custom", cfg.Classifier.Model, "same provider keeps overrides")
}
