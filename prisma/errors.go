package prisma

import (
	"errors"
	"fmt"

	"github.com/spicyzboss/prisma-client-go/prisma/core"
)

// ErrNonFiniteFloat is the sentinel wrapped by NonFiniteFloatError.
var ErrNonFiniteFloat = errors.New("non-finite float has no decimal representation")

// NonFiniteFloatError is returned by ToCore for a NaN or infinite Float.
// The canonical Float is a decimal, and decimals are always finite.
type NonFiniteFloatError struct {
	Value float64
}

func (e *NonFiniteFloatError) Error() string {
	return fmt.Sprintf("cannot convert float %v to decimal: %v", e.Value, ErrNonFiniteFloat)
}

func (e *NonFiniteFloatError) Unwrap() error {
	return ErrNonFiniteFloat
}

// FaultError reports a canonical value that breaks a guarantee of its
// producer, such as Json text that is not valid JSON. It indicates upstream
// corruption and is raised with panic, never returned.
type FaultError struct {
	Kind   core.Kind
	Reason string
	Err    error
}

func (e *FaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fault: canonical %s value %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("fault: canonical %s value %s", e.Kind, e.Reason)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func fault(kind core.Kind, reason string, err error) *FaultError {
	return &FaultError{Kind: kind, Reason: reason, Err: err}
}
