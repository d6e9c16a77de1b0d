package datexport

// SkipReason describes why a row produced no record.
type SkipReason int

const (
	SkipEmptyKey SkipReason = iota // first cell empty after substitution
	SkipFiltered                   // filter expression evaluated to false
)

// String returns a human-readable name for the SkipReason.
func (r SkipReason) String() string {
	switch r {
	case SkipEmptyKey:
		return "empty key"
	case SkipFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// RecordListener is notified while a grid is converted. Row indexes are
// 0-based positions in the grid handed to the converter.
type RecordListener interface {
	// OnRecord is called after rec has been stored under key.
	OnRecord(key string, rec *Record, row int)

	// OnSkip is called for a row that produced no record.
	OnSkip(row int, reason SkipReason)
}
