package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for hints such as the fyi annotation.
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
