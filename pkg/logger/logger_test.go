package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vkbackup/pkg/config"
)

func newBufferLogger(level zerolog.Level) (*bytes.Buffer, Logger) {
	var buf bytes.Buffer
	return &buf, NewWithWriter(&buf, level)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { _ = Close() })

	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info to file", &config.LoggingConfig{Level: "info", File: filepath.Join(dir, "a.log")}, false},
		{"debug with console", &config.LoggingConfig{Level: "debug", File: filepath.Join(dir, "b.log"), Console: true}, false},
		{"file in nested dir", &config.LoggingConfig{Level: "warn", File: filepath.Join(dir, "logs", "c.log")}, false},
		{"invalid level", &config.LoggingConfig{Level: "verbose", File: filepath.Join(dir, "d.log")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
			assert.FileExists(t, tt.cfg.File)
		})
	}
}

func TestFileOutputFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vk_backup.log")

	l, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.WithField("owner_id", 42).Info("Backup started")
	l.WithError(errors.New("boom")).Error("Failed to save photo")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], " INFO Backup started")
	assert.Contains(t, lines[0], "owner_id=42")
	assert.Contains(t, lines[1], " ERROR Failed to save photo")
	assert.Contains(t, lines[1], "error=boom")
	assert.NotContains(t, string(data), "\x1b[", "file output must not contain color codes")
}

func TestFileIsAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vk_backup.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	l, err := New(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)
	l.Info("new run")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "previous run\n"))
	assert.Contains(t, string(data), "new run")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, l := newBufferLogger(zerolog.WarnLevel)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestFieldChaining(t *testing.T) {
	buf, l := newBufferLogger(zerolog.DebugLevel)

	parent := l.WithField("run_id", "abc")
	parent.
		WithField("owner_id", 7).
		WithFields(map[string]interface{}{"source": "wall", "ok": true}).
		Info("chained fields")

	out := buf.String()
	assert.Contains(t, out, `"app":"vkbackup"`)
	assert.Contains(t, out, `"run_id":"abc"`)
	assert.Contains(t, out, `"owner_id":7`)
	assert.Contains(t, out, `"source":"wall"`)
	assert.Contains(t, out, `"ok":true`)

	// children never leak fields into their parent
	buf.Reset()
	parent.Info("parent only")
	assert.NotContains(t, buf.String(), "owner_id")
}

func TestWithError(t *testing.T) {
	buf, l := newBufferLogger(zerolog.DebugLevel)

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("upload refused")).Error("error occurred")
	assert.Contains(t, buf.String(), `"error":"upload refused"`)
}

func TestStructuredLogging(t *testing.T) {
	buf, l := newBufferLogger(zerolog.DebugLevel)

	l.InfoWithFields("photo saved", map[string]interface{}{
		"file_name": "10_2024-01-15.jpg",
		"size":      "w",
		"width":     1280,
		"cause":     errors.New("none"),
	})

	out := buf.String()
	assert.Contains(t, out, `"file_name":"10_2024-01-15.jpg"`)
	assert.Contains(t, out, `"width":1280`)
	assert.Contains(t, out, `"cause":"none"`)
}

func TestGlobalLogger(t *testing.T) {
	// uninitialised global logger discards output
	assert.NotPanics(t, func() { Info("nothing happens") })

	test := NewTestLogger()
	SetLogger(test)
	t.Cleanup(func() { SetLogger(NewNopLogger()) })

	Info("info message")
	WithField("key", "value").Warn("with field")
	WithError(errors.New("x")).Error("with error")

	assert.True(t, test.HasMessage("info message"))
	assert.Equal(t, "value", test.GetMessagesByLevel("WARN")[0].Fields["key"])
	assert.True(t, test.HasError())
}

func TestHelpers(t *testing.T) {
	test := NewTestLogger()

	LogRequest(test, "GET", "https://api.vk.com/method/photos.get", 200, 12)
	LogRequest(test, "GET", "https://api.vk.com/method/photos.get", 503, 40)
	LogPhotoSaved(test, "local", "1_2024-01-01.jpg", nil)
	LogPhotoSaved(test, "yandex", "2_2024-01-01.jpg", errors.New("409"))
	LogBackupProgress(test, 1, 1, 4)

	assert.True(t, test.HasMessage("HTTP request completed"))
	assert.True(t, test.HasMessage("HTTP request server error"))
	assert.True(t, test.HasMessage("Photo saved"))

	errs := test.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 2)
	assert.Equal(t, "yandex", errs[1].Fields["destination"])
	assert.EqualError(t, errs[1].Error, "409")

	progress := test.GetMessagesByLevel("DEBUG")
	assert.Equal(t, "25.0%", progress[len(progress)-1].Fields["percentage"])
}

func TestTestLoggerSharesSink(t *testing.T) {
	test := NewTestLogger()
	child := test.WithField("k", "v")
	child.Info("from child")

	assert.True(t, test.HasMessage("from child"))
	assert.Contains(t, test.String(), "[INFO] from child fields=map[k:v]")

	test.Clear()
	assert.Empty(t, test.GetMessages())
}
