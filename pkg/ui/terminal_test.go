package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerminalPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Error("Failed to load config", errors.New("vk_token is required"))
	term.Success("Saved 3 photos")
	term.Info("Manifest", "photos_info_1.json")
	term.Warning("Album is empty")

	out := buf.String()
	assert.NotContains(t, out, "\033[", "buffers are not terminals")
	assert.Contains(t, out, "Failed to load config: vk_token is required\n")
	assert.Contains(t, out, "Saved 3 photos\n")
	assert.Contains(t, out, "Manifest: photos_info_1.json\n")
	assert.Contains(t, out, "Album is empty\n")
}

func TestTerminalColor(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.color = true

	term.Success("ok")
	assert.Equal(t, "\033[32mok\033[0m\n", buf.String())
}

func TestTerminalErrorWithoutCause(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf).Error("Invalid choice")
	assert.Equal(t, "Invalid choice\n", buf.String())
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	p := term.NewProgress("Saving", 4)
	assert.Equal(t, "[░░░░░░░░░░░░░░░░░░░░] 0/4", p.Bar())

	p.Advance("1_2024-01-01.jpg")
	p.Fail("2_2024-01-02.jpg", errors.New("timeout"))
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 10)+strings.Repeat(ProgressEmpty, 10)+"] 2/4", p.Bar())
	assert.Empty(t, buf.String(), "plain output only prints on Finish")

	p.Advance("3_2024-01-03.jpg")
	p.Advance("4_2024-01-04.jpg")
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "Saving ["+strings.Repeat(ProgressBar, 20)+"] 4/4 • 1 failed")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressColorRedraws(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.color = true

	p := term.NewProgress("Saving", 2)
	p.Advance("a.jpg")

	assert.Equal(t, 2, strings.Count(buf.String(), "\r\033[K"))
	assert.Contains(t, buf.String(), "a.jpg")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{7 * time.Second, "7s"},
		{2*time.Minute + 5*time.Second, "2m05s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{1400 * time.Millisecond, "1s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
