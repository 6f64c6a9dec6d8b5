package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 writeConfig writes config content to a file in a temp dir
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err, "writing config file should succeed")
	return path
}

func TestLoadFormats(t *testing.T) {
	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	tests := []struct {
		name     string
		filename string
		content  string
		check    func(t *testing.T, cfg *Config)
	}{
		{
			name:     "hcl",
			filename: "config.hcl",
			content: `
root_folder     = "/srv/takeouts"
max_retries     = 4
mode            = "validate-only"
ignore_patterns = ["**/broken/**"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Clean("/srv/takeouts"), cfg.RootFolder, "root folder should match")
				assert.Equal(t, 4, cfg.MaxRetries, "max retries should match")
				assert.Equal(t, ModeValidateOnly, cfg.Mode, "mode should match")
				assert.Equal(t, []string{"**/broken/**"}, cfg.IgnorePatterns, "ignore patterns should match")
			},
		},
		{
			name:     "json",
			filename: "config.json",
			content: `{
  "root_folder": "/srv/takeouts",
  "delete_archives": true,
  "test_item_limit": 3
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Clean("/srv/takeouts"), cfg.RootFolder, "root folder should match")
				assert.True(t, cfg.DeleteArchives, "delete_archives should be true")
				assert.Equal(t, 3, cfg.TestItemLimit, "test item limit should match")
			},
		},
		{
			name:     "zipmerge_as_yaml",
			filename: ".zipmerge",
			content: `
root_folder: /srv/takeouts
mode: normal
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ModeNormal, cfg.Mode, "mode should match")
			},
		},
		{
			name:     "zipmerge_as_hcl",
			filename: ".zipmerge",
			content: `
root_folder = "/srv/takeouts"
mode        = "validate-after"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ModeValidateAfter, cfg.Mode, "mode should match")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.filename, tt.content)
			cfg, err := Load(ctx, path)
			require.NoError(t, err, "Load should succeed")
			tt.check(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err, "Load should fail on missing file")
		assert.Contains(t, err.Error(), "reading config file", "error should mention read failure")
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := writeConfig(t, "config.toml", `root_folder = "/srv/takeouts"`)
		_, err := Load(ctx, path)
		require.Error(t, err, "Load should fail on unsupported extension")
		assert.Contains(t, err.Error(), "unsupported file extension", "error should mention the extension")
	})

	t.Run("zipmerge_neither_format", func(t *testing.T) {
		path := writeConfig(t, ".zipmerge", "{{{ not a config")
		_, err := Load(ctx, path)
		require.Error(t, err, "Load should fail when neither format parses")
		assert.Contains(t, err.Error(), "failed to parse .zipmerge", "error should mention the dual-format attempt")
	})

	t.Run("json_unknown_field", func(t *testing.T) {
		path := writeConfig(t, "config.json", `{"root_folder": "/srv/takeouts", "workers": 9}`)
		_, err := Load(ctx, path)
		require.Error(t, err, "Load should reject unknown JSON fields")
		assert.Contains(t, err.Error(), "parsing JSON", "error should mention JSON parsing")
	})
}
