package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sigil/internal/diag"
	"sigil/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	caretColor   = color.New(color.FgRed, color.Bold)
	noteColor    = color.New(color.FgBlue)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeader(w, fs, d.Primary, severityTag(d.Severity, opts.Color), d.Code.String(), d.Message)
		writeUnderline(w, fs, d.Primary, opts.Color)
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			tag := "NOTE"
			if opts.Color {
				tag = noteColor.Sprint(tag)
			}
			fmt.Fprintf(w, "%s: %s: %s\n", location(fs, note.Span), tag, note.Msg)
			writeUnderline(w, fs, note.Span, opts.Color)
		}
	}
}

func severityTag(sev diag.Severity, colored bool) string {
	tag := sev.String()
	if !colored {
		return tag
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint(tag)
	case diag.SevWarning:
		return warningColor.Sprint(tag)
	default:
		return infoColor.Sprint(tag)
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, span source.Span, sev, code, msg string) {
	fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, span), sev, code, msg)
}

func location(fs *source.FileSet, span source.Span) string {
	file := fs.Get(span.File)
	if file == nil {
		return "<unknown>"
	}
	pos := fs.Position(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, pos.Line, pos.Col)
}

// writeUnderline prints the offending source line with a ^~~~ marker.
// Spans past the line end (synthetic or EOF spans) degrade to a bare caret.
func writeUnderline(w io.Writer, fs *source.FileSet, span source.Span, colored bool) {
	if fs.Get(span.File) == nil {
		return
	}
	line := fs.Line(span)
	if line == nil {
		return
	}
	pos := fs.Position(span)
	text := strings.TrimRight(string(line), "\r\n")
	fmt.Fprintf(w, "    %s\n", text)

	col := int(pos.Col) - 1
	if col > len(text) {
		col = len(text)
	}
	width := int(span.End - span.Start)
	if width < 1 {
		width = 1
	}
	if col+width > len(text) && len(text) > col {
		width = len(text) - col
	}
	marker := "^"
	if width > 1 {
		marker += strings.Repeat("~", width-1)
	}
	if colored {
		marker = caretColor.Sprint(marker)
	}
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", col), marker)
}
