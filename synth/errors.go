package synth

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveBank is returned when an operation needs a loaded sound
	// bank and none is.
	ErrNoActiveBank = errors.New("no sound bank loaded")

	// ErrUnknownPreset is returned when selecting a (bank, program) pair
	// the loaded bank does not define.
	ErrUnknownPreset = errors.New("preset not defined by the loaded bank")
)

// BankLoadError reports a failed sound bank load. The engine is left with
// no bank loaded.
type BankLoadError struct {
	Path string
	Err  error
}

func (e *BankLoadError) Error() string {
	return fmt.Sprintf("load sound bank %s: %v", e.Path, e.Err)
}

func (e *BankLoadError) Unwrap() error {
	return e.Err
}

// EventError reports an event with parameters the engine cannot apply.
// Callers log it and keep going; it never aborts the audio path.
type EventError struct {
	Reason string
}

func (e *EventError) Error() string {
	return "invalid event: " + e.Reason
}
