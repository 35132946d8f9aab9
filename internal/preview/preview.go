// Package preview prints converted hand histories to a terminal with the
// street markers and results highlighted.
package preview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	hand    lipgloss.Style
	street  lipgloss.Style
	dealt   lipgloss.Style
	collect lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		hand: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")),
		street: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")),
		dealt: r.NewStyle().
			Foreground(lipgloss.Color("11")),
		collect: r.NewStyle().
			Foreground(lipgloss.Color("10")),
		dim: r.NewStyle().
			Faint(true),
	}
}

// Option configures a Printer.
type Option func(*config)

type config struct {
	plain bool
}

// WithPlainText disables colour and text attributes regardless of what the
// terminal supports.
func WithPlainText() Option {
	return func(c *config) { c.plain = true }
}

// Printer writes converted hands one after another.
type Printer struct {
	w       io.Writer
	printed int
	styles  styles
}

// NewPrinter creates a printer writing to w, or stdout when w is nil. The
// colour profile is detected from w unless WithPlainText is given.
func NewPrinter(w io.Writer, opts ...Option) *Printer {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if w == nil {
		w = os.Stdout
	}

	r := lipgloss.NewRenderer(w)
	if cfg.plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, styles: newStyles(r)}
}

// Printed returns the number of hands printed so far.
func (p *Printer) Printed() int {
	return p.printed
}

// PrintHand writes a single rendered hand block.
func (p *Printer) PrintHand(block string) {
	if p.printed > 0 {
		fmt.Fprintln(p.w)
	}
	p.printed++
	fmt.Fprintln(p.w, p.Highlight(block))
}

// PrintAll writes up to limit hands (all when limit <= 0) followed by a
// footer naming how many were shown.
func (p *Printer) PrintAll(blocks []string, limit int) {
	if limit <= 0 || limit > len(blocks) {
		limit = len(blocks)
	}
	for _, block := range blocks[:limit] {
		p.PrintHand(block)
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.dim.Render(fmt.Sprintf("%d of %d hands shown", limit, len(blocks))))
}

// Highlight styles every line of a rendered hand block.
func (p *Printer) Highlight(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = p.StyleLine(line)
	}
	return strings.Join(lines, "\n")
}

// StyleLine picks a style for one line from its PokerStars prefix.
func (p *Printer) StyleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "PokerStars Hand #"):
		return p.styles.hand.Render(line)
	case strings.HasPrefix(line, "***"):
		return p.styles.street.Render(line)
	case strings.HasPrefix(line, "Dealt to "):
		return p.styles.dealt.Render(line)
	case strings.Contains(line, " collected ("):
		return p.styles.collect.Render(line)
	case strings.HasPrefix(line, "Table '"):
		return p.styles.dim.Render(line)
	default:
		return line
	}
}
