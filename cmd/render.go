package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	service "github.com/okian/securescore/internal/app"
	"github.com/okian/securescore/internal/domain/delta"
	"github.com/okian/securescore/internal/domain/history"
)

// Palette for change classes.
var (
	colorImproved  = lipgloss.Color("#2CD7C7")
	colorRegressed = lipgloss.Color("#E74C3C")
	colorMuted     = lipgloss.Color("#7F8C8D")
)

// printer writes human readable results. Colour is only emitted when w is a
// terminal.
type printer struct {
	w         io.Writer
	bold      lipgloss.Style
	muted     lipgloss.Style
	improved  lipgloss.Style
	regressed lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:         w,
		bold:      r.NewStyle().Bold(true),
		muted:     r.NewStyle().Foreground(colorMuted),
		improved:  r.NewStyle().Foreground(colorImproved).Bold(true),
		regressed: r.NewStyle().Foreground(colorRegressed).Bold(true),
	}
}

func (p *printer) class(res delta.Result) string {
	switch res.Class {
	case delta.Improved:
		return p.improved.Render(res.String())
	case delta.Regressed:
		return p.regressed.Render(res.String())
	default:
		return p.muted.Render(res.String())
	}
}

func (p *printer) ingested(out service.Outcome) {
	if !out.HadHistory {
		p.printf("No history found at %s, starting a new one.\n", out.Location)
	}
	rec := out.Added
	p.printf("Recorded %s: %s/%s (%d%%) at %s\n",
		p.bold.Render(rec.ScoreName), num(rec.CurrentScore), num(rec.MaxScore), rec.ScorePercentage, rec.Timestamp)
	if out.Delta.Computed {
		p.printf("Change: %s\n", p.class(out.Delta))
	} else {
		p.printf("Change: %s\n", p.muted.Render("none, this is the first capture"))
	}
	p.printf("History: %d records in %s\n", len(out.Records), out.Location)
}

func (p *printer) history(snap history.Snapshot, series []delta.Result, limit int) error {
	if !snap.Exists {
		p.printf("No history found at %s.\n", snap.Location)
		return nil
	}
	if len(snap.Records) == 0 {
		p.printf("History at %s is empty.\n", snap.Location)
		return nil
	}

	start := 0
	if limit > 0 && limit < len(snap.Records) {
		start = len(snap.Records) - limit
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTIMESTAMP\tSCORE\tPERCENT\tCHANGE")
	for i := start; i < len(snap.Records); i++ {
		rec := snap.Records[i].Record()
		change := "-"
		if series[i].Computed {
			change = signed(series[i].Delta)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s/%s\t%d%%\t%s\n",
			i+1, rec.Timestamp, num(rec.CurrentScore), num(rec.MaxScore), rec.ScorePercentage, change)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p.printf("Last change: %s\n", p.class(series[len(series)-1]))
	return nil
}

func (p *printer) valid(snap history.Snapshot) {
	if !snap.Exists {
		p.printf("No history found at %s.\n", snap.Location)
		return
	}
	p.printf("%s: %d valid records\n", snap.Location, len(snap.Records))
}

func (p *printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func signed(f float64) string {
	if f > 0 {
		return "+" + num(f)
	}
	return num(f)
}
