package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sh4/zabuton/internal/progress"
)

const (
	defaultBarWidth = 40
	defaultInterval = 100 * time.Millisecond
)

var stageLabels = map[progress.Kind]string{
	progress.KindExtractArchive:     "Extracting",
	progress.KindDownloadFile:       "Downloading",
	progress.KindCloneRepository:    "Cloning",
	progress.KindFetchRepository:    "Fetching",
	progress.KindCheckoutRepository: "Checking out",
	progress.KindResetRepository:    "Resetting",
}

// byteStages report their values in bytes.
var byteStages = map[progress.Kind]bool{
	progress.KindExtractArchive: true,
	progress.KindDownloadFile:   true,
}

// ProgressPrinterConfig is the configuration for the ProgressPrinter.
type ProgressPrinterConfig struct {
	Out io.Writer
	// Interval is the redraw period of the running stage.
	Interval time.Duration
	BarWidth int
	NoColor  bool
}

func (c *ProgressPrinterConfig) defaults() error {
	if c.Out == nil {
		return fmt.Errorf("output is required")
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.BarWidth <= 0 {
		c.BarWidth = defaultBarWidth
	}
	return nil
}

// ProgressPrinter draws one bar line per stage, redrawn in place until the
// stage finishes.
type ProgressPrinter struct {
	out      io.Writer
	interval time.Duration
	width    int
	label    *color.Color
	done     *color.Color
}

// NewProgressPrinter returns a new ProgressPrinter.
func NewProgressPrinter(cfg ProgressPrinterConfig) (*ProgressPrinter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	label := color.New(color.FgCyan, color.Bold)
	done := color.New(color.FgGreen)
	if cfg.NoColor {
		label.DisableColor()
		done.DisableColor()
	} else {
		label.EnableColor()
		done.EnableColor()
	}

	return &ProgressPrinter{
		out:      cfg.Out,
		interval: cfg.Interval,
		width:    cfg.BarWidth,
		label:    label,
		done:     done,
	}, nil
}

// Consumer returns the progress consumer that draws the stages.
func (p *ProgressPrinter) Consumer() progress.Consumer {
	var closed *progress.Unit
	return progress.Poll(p.interval, func(u *progress.Unit) {
		finished := u.Finished()
		line := p.line(u, finished)
		if !finished {
			fmt.Fprintf(p.out, "\r%s", line)
			return
		}
		if closed != u {
			closed = u
			fmt.Fprintf(p.out, "\r%s\n", line)
		}
	})
}

// Line renders the state of a unit.
func (p *ProgressPrinter) Line(u *progress.Unit) string {
	return p.line(u, u.Finished())
}

func (p *ProgressPrinter) line(u *progress.Unit, finished bool) string {
	name, ok := stageLabels[u.Kind()]
	if !ok {
		name = u.Kind().String()
	}
	parts := []string{p.label.Sprintf("%-12s", name)}

	percent, known := u.Percent()
	if known {
		parts = append(parts, p.bar(percent), fmt.Sprintf("%3.0f%%", percent))
	}
	if byteStages[u.Kind()] {
		if known {
			parts = append(parts, FormatBytes(u.Current())+"/"+FormatBytes(u.Total()))
		} else {
			parts = append(parts, FormatBytes(u.Current()))
		}
	}
	if msg, ok := u.Aux().(string); ok && msg != "" {
		parts = append(parts, msg)
	}
	if finished {
		parts = append(parts, p.done.Sprint("done"))
	}

	return strings.Join(parts, " ")
}

func (p *ProgressPrinter) bar(percent float64) string {
	filled := int(percent / 100 * float64(p.width))
	if filled > p.width {
		filled = p.width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", p.width-filled) + "]"
}
