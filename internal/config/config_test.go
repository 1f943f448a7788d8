package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/themec/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{
			name: "yaml",
			ext:  ".yaml",
			data: `include: ["src/**/*.css"]
outDir: build
normalizeColors: true
themes:
  light: themes/light.css
  dark: themes/dark.tokens.json
`,
		},
		{
			name: "json with comments",
			ext:  ".json",
			data: `{
  // sources
  "include": ["src/**/*.css"],
  "outDir": "build",
  "normalizeColors": true,
  "themes": {
    "light": "themes/light.css",
    "dark": "themes/dark.tokens.json"
  }
}`,
		},
		{
			name: "toml",
			ext:  ".toml",
			data: `include = ["src/**/*.css"]
outDir = "build"
normalizeColors = true

[themes]
light = "themes/light.css"
dark = "themes/dark.tokens.json"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.data), tt.ext)
			require.NoError(t, err)

			assert.Equal(t, []string{"src/**/*.css"}, cfg.Include)
			assert.Equal(t, "build", cfg.OutDir)
			assert.True(t, cfg.NormalizeColors)
			assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
			assert.Equal(t, "themes/light.css", cfg.Themes["light"])

			// defaults
			assert.Equal(t, "theme-var", cfg.Marker)
			assert.Equal(t, ":root", cfg.RootSelector)
			assert.Equal(t, "[name].theme.css", cfg.Filename)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := config.Parse([]byte("x"), ".ini")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	t.Run("no themes", func(t *testing.T) {
		err := config.Default().Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, config.ErrInvalidConfig))
		assert.Contains(t, err.Error(), "no themes declared")
	})

	t.Run("filename without placeholder", func(t *testing.T) {
		cfg := config.Default()
		cfg.Filename = "theme.css"
		cfg.Themes = map[string]string{"a": "a.css", "b": "b.css"}
		assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)

		cfg.Themes = map[string]string{"a": "a.css"}
		assert.NoError(t, cfg.Validate(), "a single theme may use a fixed filename")
	})

	t.Run("empty theme source", func(t *testing.T) {
		cfg := config.Default()
		cfg.Themes = map[string]string{"a": " "}
		assert.ErrorContains(t, cfg.Validate(), `theme "a" has no source`)
	})

	t.Run("outDir must not contain the config directory", func(t *testing.T) {
		dir := t.TempDir()
		for _, out := range []string{".", "./", "", "..", dir} {
			cfg := config.Default()
			cfg.Dir = dir
			cfg.OutDir = out
			cfg.Themes = map[string]string{"a": "a.css"}
			err := cfg.Validate()
			assert.ErrorIs(t, err, config.ErrInvalidConfig, out)
			assert.ErrorContains(t, err, "must not contain the config directory", out)
		}

		for _, out := range []string{"dist", "./build/themes", "../sibling", filepath.Join(dir, "out")} {
			cfg := config.Default()
			cfg.Dir = dir
			cfg.OutDir = out
			cfg.Themes = map[string]string{"a": "a.css"}
			assert.NoError(t, cfg.Validate(), out)
		}
	})
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", config.Find(dir))

	path := filepath.Join(dir, "themec.yml")
	require.NoError(t, os.WriteFile(path, []byte("themes:\n  light: light.css\n"), 0o644))
	assert.Equal(t, path, config.Find(dir))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Dir))
	assert.Equal(t, filepath.Join(cfg.Dir, "light.css"), cfg.ResolvePath("light.css"))
	assert.Equal(t, "/abs/x.css", cfg.ResolvePath("/abs/x.css"))
	assert.Equal(t, "light.theme.css", cfg.OutputFilename("light"))

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
