package dvf

import "fmt"

// DataSourceError reports a snapshot file that is missing, unreadable or
// structurally invalid (e.g. a required header column is absent). It is
// fatal for the load; nothing is cached.
type DataSourceError struct {
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("dvf: snapshot %s: %v", e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// MalformedRecordError reports a row whose field could not be coerced to
// its expected numeric type. A single malformed row fails the whole load:
// a partial dataset would silently skew every aggregate built on top of it.
type MalformedRecordError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("dvf: snapshot line %d: field %s: cannot coerce %q: %v",
		e.Line, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
