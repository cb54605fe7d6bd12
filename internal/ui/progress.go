package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ytget/ytpick/internal/model"
)

// ProgressRenderer draws a single updating status line for progress events
// and a completion line when a file is finished.
type ProgressRenderer struct {
	w       io.Writer
	color   bool
	lastLen int
}

// NewProgressRenderer creates a renderer writing to w.
func NewProgressRenderer(w io.Writer, color bool) *ProgressRenderer {
	return &ProgressRenderer{w: w, color: color}
}

// Handle renders one event. It satisfies model.ProgressFunc.
func (r *ProgressRenderer) Handle(ev model.ProgressEvent) {
	switch ev.Status {
	case model.ProgressDownloading:
		r.status(fmt.Sprintf("%s %s at %s ETA %s",
			paint(r.color, colorCyan, "[download]"),
			FormatPercent(ev.Percent), FormatSpeed(ev.Speed), FormatETA(ev)))
	case model.ProgressProcessing:
		r.status(fmt.Sprintf("%s %s", paint(r.color, colorCyan, "[remux]"), FormatPercent(ev.Percent)))
	case model.ProgressFinished:
		r.Break()
		fmt.Fprintf(r.w, "%s %s %s\n",
			paint(r.color, colorCyan, "[download]"),
			paint(r.color, colorGreen, "Download completed:"), ev.Filename)
	}
}

// Break ends an open status line so regular output starts on a fresh line.
func (r *ProgressRenderer) Break() {
	if r.lastLen > 0 {
		fmt.Fprintln(r.w)
		r.lastLen = 0
	}
}

func (r *ProgressRenderer) status(line string) {
	pad := ""
	if n := len(line); n < r.lastLen {
		pad = strings.Repeat(" ", r.lastLen-n)
	}
	fmt.Fprint(r.w, "\r"+line+pad)
	r.lastLen = len(line)
}

// FormatPercent renders a percentage, or N/A when unknown.
func FormatPercent(p float64) string {
	if p < 0 {
		return "N/A"
	}
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf("%5.1f%%", p)
}

// FormatSpeed renders bytes per second as a human readable rate.
func FormatSpeed(bps float64) string {
	if bps <= 0 {
		return "N/A"
	}
	return humanize.Bytes(uint64(bps)) + "/s"
}

// FormatETA renders the remaining time of ev.
func FormatETA(ev model.ProgressEvent) string {
	if ev.ETA < 0 {
		return "N/A"
	}
	return model.FormatETA(int(ev.ETA.Seconds()))
}
