package runtime

import (
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
)

// StepError reports which step failed. It unwraps to the step's error.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s' failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// LoopLimitError is returned when the start step is entered too often.
// It matches domain.ErrToolLoopExceeded with errors.Is.
type LoopLimitError struct {
	MaxRounds int
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("%v: more than %d rounds", domain.ErrToolLoopExceeded, e.MaxRounds)
}

func (e *LoopLimitError) Unwrap() error {
	return domain.ErrToolLoopExceeded
}
