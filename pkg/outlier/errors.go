package outlier

import (
	"errors"
	"fmt"
)

var(
	// ErrEmptyValidSet is matched (via errors.Is) by any EmptyValidSetError.
	ErrEmptyValidSet = errors.New("no valid pixels")
)

// EmptyValidSetError is returned when nothing inside the mask has alpha
// 1 and a non-zero RGB sum; mean, stddev and max are undefined.
type EmptyValidSetError struct {
	MaskedPixels int // How many pixels the circular mask let through
}

func (e *EmptyValidSetError) Error() string {
	return fmt.Sprintf("%v (of %d pixels inside mask)", ErrEmptyValidSet, e.MaskedPixels)
}

func (e *EmptyValidSetError) Is(target error) bool { return target == ErrEmptyValidSet }
