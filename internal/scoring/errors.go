package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks an item with a missing or unreadable required field.
	ErrFormat = errors.New("format fault")
	// ErrAuthenticity marks an id/url mismatch or an id repeated within one submission.
	ErrAuthenticity = errors.New("authenticity fault")
	// ErrVerificationMiss marks a sampled item the ground-truth source could not resolve.
	ErrVerificationMiss = errors.New("verification miss")
	// ErrTampered marks a sampled item whose text or timestamp disagrees with ground truth.
	ErrTampered = errors.New("tampered item")
	// ErrLookup marks a failed or timed out ground-truth batch.
	ErrLookup = errors.New("external lookup error")
)

// Fault is one problem found while scoring a miner's submission.
// Item is -1 when the fault concerns the submission as a whole.
type Fault struct {
	Item int
	Err  error
}

func (f Fault) Error() string {
	if f.Item < 0 {
		return f.Err.Error()
	}
	return fmt.Sprintf("item %d: %v", f.Item, f.Err)
}

func (f Fault) Unwrap() error { return f.Err }

func fault(item int, kind error, format string, args ...any) Fault {
	return Fault{Item: item, Err: fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)}
}
