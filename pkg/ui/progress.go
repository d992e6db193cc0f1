package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// Progress tracks one backup run and redraws a single status line
type Progress struct {
	term      *Terminal
	label     string
	total     int
	done      int
	failed    int
	current   string
	startTime time.Time
}

// NewProgress creates a progress bar for total photos
func (t *Terminal) NewProgress(label string, total int) *Progress {
	p := &Progress{
		term:      t,
		label:     label,
		total:     total,
		startTime: time.Now(),
	}
	p.render()
	return p
}

// Advance records one saved photo
func (p *Progress) Advance(name string) {
	p.done++
	p.current = name
	p.render()
}

// Fail records one photo that could not be saved
func (p *Progress) Fail(name string, err error) {
	p.failed++
	p.current = name
	p.render()
}

// Finish prints the final line and moves to the next line
func (p *Progress) Finish() {
	p.current = ""
	if p.term.color {
		p.render()
	} else {
		fmt.Fprint(p.term.out, p.line())
	}
	fmt.Fprintf(p.term.out, " • %s\n", formatDuration(time.Since(p.startTime)))
}

// Bar returns the bar for the current state, e.g. "[█████░░░…] 5/20"
func (p *Progress) Bar() string {
	processed := p.done + p.failed
	filled := 0
	if p.total > 0 {
		filled = processed * barWidth / p.total
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, barWidth-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, processed, p.total)
}

func (p *Progress) line() string {
	line := fmt.Sprintf("%s %s", p.term.Cyan(p.label), p.Bar())
	if p.failed > 0 {
		line += " • " + p.term.Red(fmt.Sprintf("%d failed", p.failed))
	}
	if p.current != "" {
		line += " • " + p.term.Dim(p.current)
	}
	return line
}

// render redraws the status line. Plain output cannot rewrite a line, so
// without colours only Finish prints.
func (p *Progress) render() {
	if !p.term.color {
		return
	}
	fmt.Fprintf(p.term.out, "\r\033[K%s", p.line())
}

// formatDuration renders d as "1h02m03s", "2m05s" or "7s"
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
