package diag

import (
	"fmt"

	"sigil/internal/source"
)

// Reporter — минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter отбрасывает все диагностики.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// Errorf reports a SevError diagnostic with a formatted message.
func Errorf(r Reporter, code Code, primary source.Span, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(code, SevError, primary, fmt.Sprintf(format, args...), nil)
}
