package ui

import (
	"fmt"
	"io"
	"sync"
)

// Progress reports the outcome of a known number of steps, one line per
// step, and counts the failed ones.
type Progress struct {
	out    io.Writer
	total  int
	done   int
	failed int
	mu     sync.Mutex
}

// NewProgress creates a progress tracker for n steps.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done marks one step as succeeded and prints the current progress.
func (p *Progress) Done(label string) {
	p.step(OKStyle.Render("ok"), label)
}

// Fail marks one step as failed and prints err under its label.
func (p *Progress) Fail(label string, err error) {
	p.mu.Lock()
	p.failed++
	p.mu.Unlock()
	p.step(ErrorStyle.Render("FAIL"), label)
	p.Log("    %v", err)
}

func (p *Progress) step(status, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s %s\n", p.done, p.total, status, label)
}

// Log prints an informational message within the progress context.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Failed returns the number of failed steps so far.
func (p *Progress) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}
