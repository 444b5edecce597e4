package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// MiningProgress draws a progress bar over Apriori levels.
type MiningProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
	levels int
}

// NewMiningProgress creates a bar for up to maxLen levels; maxLen 0 means
// the depth is unknown and a spinner is shown instead.
func NewMiningProgress(w io.Writer, maxLen int) *MiningProgress {
	total := maxLen
	if total <= 0 {
		total = -1
	}
	p := &MiningProgress{writer: w}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Mining itemsets...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Report is a mining progress callback: one call per completed level.
func (p *MiningProgress) Report(level, frequent int) {
	p.levels = level
	p.bar.Describe(fmt.Sprintf("[cyan][bold]Mining itemsets[reset] level %d, %d frequent", level, frequent))
	if err := p.bar.Set(level); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (p *MiningProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

// Levels returns the deepest level reported so far.
func (p *MiningProgress) Levels() int {
	return p.levels
}
