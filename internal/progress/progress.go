package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const barWidth = 20

// Indicator reports progress through a batch of searches on a side channel
// (stderr by default), keeping stdout for the listing dump.
type Indicator struct {
	out       io.Writer
	enabled   bool
	message   string
	total     int
	current   int
	startTime time.Time
	now       func() time.Time
}

// NewIndicator creates a new progress indicator writing to out
func NewIndicator(out io.Writer, message string, total int, enabled bool) *Indicator {
	if out == nil {
		out = os.Stderr
	}
	return &Indicator{
		out:     out,
		enabled: enabled,
		message: message,
		total:   total,
		now:     time.Now,
	}
}

// Start begins the progress indication
func (p *Indicator) Start() {
	p.startTime = p.now()
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "%s (%d)...\n", p.message, p.total)
}

// Step marks the beginning of item current (1-based) with a label
func (p *Indicator) Step(current int, label string) {
	p.current = current
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "[%s] %d/%d %s\n", p.bar(), current, p.total, label)
}

// Finish completes the progress indication
func (p *Indicator) Finish() {
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "%s ✓ Completed %d/%d in %s\n",
		p.message, p.current, p.total, formatDuration(p.now().Sub(p.startTime)))
}

// FinishWithError completes the progress indication with an error
func (p *Indicator) FinishWithError(err error) {
	if !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "%s ✗ Failed at %d/%d after %s: %v\n",
		p.message, p.current, p.total, formatDuration(p.now().Sub(p.startTime)), err)
}

// bar renders completed steps before the current one as filled
func (p *Indicator) bar() string {
	if p.total <= 0 {
		return strings.Repeat("░", barWidth)
	}
	done := p.current - 1
	if done < 0 {
		done = 0
	}
	filled := done * barWidth / p.total
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
