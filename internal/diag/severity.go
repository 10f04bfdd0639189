package diag

// Severity ранжирует диагностики; порядок констант значим —
// HasErrors и Bag.Sort сравнивают его численно.
type Severity uint8

const (
	// SevInfo — справочный вывод, на код возврата не влияет.
	SevInfo Severity = iota
	// SevWarning — подозрительная аннотация, разрешение продолжается.
	SevWarning
	// SevError — некорректная аннотация, результат деградирует до T.untyped.
	SevError
)

// String returns the tag printed in diagnostic headers.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
