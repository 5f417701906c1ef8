package match

import "fmt"

// ShapeMismatchError reports record/file counts that cannot be reconciled,
// even after duplicate resolution. It aborts the batch before any filesystem
// mutation.
type ShapeMismatchError struct {
	// Target is the expected record count (file count or largest source).
	Target int

	// Size is the offending record-set size.
	Size int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf(
		"cannot initialize metadata records with [total = %d] and first source [size = %d]: "+
			"first source must match the total or hold a single record; "+
			"please resolve missing items manually", e.Target, e.Size)
}
