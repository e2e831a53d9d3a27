package annotations

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter, enabling color when w is a terminal.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return NewOutputFormatterWithColor(w, useColor)
}

// NewOutputFormatterWithColor creates a formatter with color forced on or off.
func NewOutputFormatterWithColor(w io.Writer, useColor bool) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &OutputFormatter{useColor: useColor, writer: w}
}

// Handle implements the Handler interface - prints events as they occur
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case ResolveBegin:
		return fmt.Sprintf("%s %s Resolving %v",
			latency,
			f.colorize("===", color.FgYellow),
			event.Data["root"])

	case ResolveComplete:
		return fmt.Sprintf("%s %s Resolve done with %s, %s reclaimed, %s cloned",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("values", event.Data["values.count"]),
			f.colorizeCount("refs", event.Data["refs.reclaimed"]),
			f.colorizeCount("refs", event.Data["refs.cloned"]))

	case RefReclaimed:
		return fmt.Sprintf("%s %s Reclaimed shared %v in place",
			latency,
			f.colorize("✓", color.FgGreen),
			event.Data["kind"])

	case RefCloned:
		return fmt.Sprintf("%s %s Copied shared %v (%v holders)",
			latency,
			f.colorize("⧉", color.FgYellow),
			event.Data["kind"],
			event.Data["holders"])

	case ErrorFault:
		return fmt.Sprintf("%s %s %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Data["error"])

	default:
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		return f.colorize(fmt.Sprintf("[%dµs]", d.Microseconds()), color.FgGreen)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)
	switch {
	case ms < 50:
		return f.colorize(s, color.FgGreen)
	case ms < 200:
		return f.colorize(s, color.FgYellow)
	default:
		return f.colorize(s, color.FgRed)
	}
}

// colorizeCount formats a count with a label.
func (f *OutputFormatter) colorizeCount(label string, count any) string {
	text := fmt.Sprintf("%v %s", count, label)
	switch label {
	case "values":
		return f.colorize(text, color.FgMagenta)
	case "refs":
		return f.colorize(text, color.FgCyan)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
