package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string]string

func (s staticTokens) Token(name string) (string, error) {
	if v, ok := s[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolate keeps Load away from the developer's real HOME and .env files
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.vk.com/method", cfg.VK.APIURL)
	assert.Equal(t, "5.131", cfg.VK.APIVersion)
	assert.Equal(t, 5, cfg.VK.TopCount)
	assert.Equal(t, 1000, cfg.VK.PageSize)
	assert.Equal(t, "vk_photos_backup", cfg.Yandex.BaseFolder)
	assert.Equal(t, "local_backup", cfg.Local.BaseDirectory)
	assert.Equal(t, "vk_backup.log", cfg.Logging.File)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
vk_token: "vk-123"
ya_token: "ya-456"
vk:
  top_count: 10
local:
  base_directory: /tmp/photos
`)

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "vk-123", cfg.VKToken)
	assert.Equal(t, "ya-456", cfg.YandexToken)
	assert.Equal(t, 10, cfg.VK.TopCount)
	assert.Equal(t, "/tmp/photos", cfg.Local.BaseDirectory)
	// untouched sections keep defaults
	assert.Equal(t, 1000, cfg.VK.PageSize)
	assert.Equal(t, "vk_photos_backup", cfg.Yandex.BaseFolder)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "vk_token: [unclosed")
		cfg := DefaultConfig()
		err := cfg.LoadFromFile(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VKBACKUP_VK_TOKEN", "env-vk")
	t.Setenv("VKBACKUP_TOP_COUNT", "7")
	t.Setenv("VKBACKUP_LOG_LEVEL", "debug")
	t.Setenv("VKBACKUP_S3_ENDPOINT", "localhost:9000")

	cfg := DefaultConfig()
	cfg.YandexToken = "from-file"
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-vk", cfg.VKToken)
	assert.Equal(t, "from-file", cfg.YandexToken)
	assert.Equal(t, 7, cfg.VK.TopCount)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.S3.Enabled())
	// unset variables leave defaults alone
	assert.Equal(t, 1000, cfg.VK.PageSize)
}

func TestLoadFromTokenSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VKToken = "file-vk"

	cfg.LoadFromTokenSource(staticTokens{TokenVK: "store-vk", TokenYandex: "store-ya"})

	assert.Equal(t, "file-vk", cfg.VKToken, "existing tokens must win over the store")
	assert.Equal(t, "store-ya", cfg.YandexToken)

	cfg.LoadFromTokenSource(nil)
	assert.Equal(t, "store-ya", cfg.YandexToken)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.VKToken = "vk"
		cfg.YandexToken = "ya"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing vk token",
			mutate:  func(c *Config) { c.VKToken = "" },
			wantErr: []string{"vk_token is required"},
		},
		{
			name: "both tokens missing",
			mutate: func(c *Config) {
				c.VKToken = ""
				c.YandexToken = ""
			},
			wantErr: []string{"vk_token is required", "ya_token is required"},
		},
		{
			name:    "top count too large",
			mutate:  func(c *Config) { c.VK.TopCount = 5000 },
			wantErr: []string{"vk.top_count must be at most 1000"},
		},
		{
			name:    "page size zero",
			mutate:  func(c *Config) { c.VK.PageSize = 0 },
			wantErr: []string{"vk.page_size must be at least 1"},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: []string{"logging.level must be one of"},
		},
		{
			name:   "known time zone",
			mutate: func(c *Config) { c.TimeZone = "Europe/Moscow" },
		},
		{
			name:    "unknown time zone",
			mutate:  func(c *Config) { c.TimeZone = "Mars/Olympus" },
			wantErr: []string{"time_zone must be a valid IANA time zone"},
		},
		{
			name:    "s3 endpoint without keys",
			mutate:  func(c *Config) { c.S3.Endpoint = "localhost:9000" },
			wantErr: []string{"s3.access_key is required", "s3.secret_key is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("file plus env precedence", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "vk_token: file-vk\nya_token: file-ya\nlogging:\n  level: WARN\n")
		t.Setenv("VKBACKUP_YA_TOKEN", "env-ya")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "file-vk", cfg.VKToken)
		assert.Equal(t, "env-ya", cfg.YandexToken)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("dotenv file is read", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".env", []byte("VKBACKUP_VK_TOKEN=dot-vk\nVKBACKUP_YA_TOKEN=dot-ya\n"), 0600))
		t.Cleanup(func() {
			os.Unsetenv("VKBACKUP_VK_TOKEN")
			os.Unsetenv("VKBACKUP_YA_TOKEN")
		})

		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "dot-vk", cfg.VKToken)
		assert.Equal(t, "dot-ya", cfg.YandexToken)
	})

	t.Run("token store fills the gaps", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "vk_token: file-vk\n")

		cfg, err := Load(path, staticTokens{TokenYandex: "store-ya"})
		require.NoError(t, err)
		assert.Equal(t, "store-ya", cfg.YandexToken)
	})

	t.Run("empty tokens are fatal", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "vk_token: \"  \"\nya_token: \"\"\n")

		cfg, err := Load(path, nil)
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vk_token is required")
		assert.Contains(t, err.Error(), "ya_token is required")
	})
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Local, cfg.Location())

	cfg.TimeZone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "********", MaskToken("short"))
	assert.Equal(t, "abcd...6789", MaskToken("abcdef0123456789"))
}
