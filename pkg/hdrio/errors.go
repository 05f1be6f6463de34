package hdrio

import "fmt"

// LoadError is returned for anything that stops a file becoming a
// radiance.Image: unreadable, unknown extension, undecodable, or the
// wrong number of channels.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load '%s': %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// WriteError is returned when an output file can't be encoded or written.
// A partially written file may be left behind.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write '%s': %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
