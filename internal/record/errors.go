package record

import "fmt"

// MalformedRecordError reports a row whose non-timestamp fields failed to
// decode. It aborts the whole collection load; partial collections are never
// returned.
type MalformedRecordError struct {
	Line int // 1-based line in the source file, 0 if unknown
	Err  error
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
