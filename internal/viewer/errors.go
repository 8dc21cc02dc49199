package viewer

import "fmt"

// SessionState names a viewer session lifecycle state.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateInitializing  SessionState = "initializing"
	StateReady         SessionState = "ready"
	StateLoading       SessionState = "loading"
	StateError         SessionState = "error"
	StateDisposed      SessionState = "disposed"
)

// ModelLoadError reports a failed model load: a network failure or a payload
// that does not deserialize to a valid building model. The session remains
// usable after it; callers may retry or load a different model.
type ModelLoadError struct {
	URL string
	Err error
}

func (e *ModelLoadError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("model load from %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("model load failed: %v", e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// SessionStateError reports an operation invoked outside its valid state,
// e.g. loading a model before initialize or after dispose.
type SessionStateError struct {
	Op    string
	State SessionState
}

func (e *SessionStateError) Error() string {
	return fmt.Sprintf("%s is not valid in session state %q", e.Op, e.State)
}

// EnvironmentLoadError reports a failed environment preset fetch. It is
// always absorbed inside the session by falling back to a flat background;
// it never surfaces to callers.
type EnvironmentLoadError struct {
	Preset string
	Err    error
}

func (e *EnvironmentLoadError) Error() string {
	return fmt.Sprintf("environment preset %q failed to load: %v", e.Preset, e.Err)
}

func (e *EnvironmentLoadError) Unwrap() error {
	return e.Err
}

// GenerationInputError reports malformed property input to the generator.
// Every current generator path degrades gracefully instead of returning it;
// the type is part of the error taxonomy for callers that add validation.
type GenerationInputError struct {
	Field  string
	Reason string
}

func (e *GenerationInputError) Error() string {
	return fmt.Sprintf("invalid property input %s: %s", e.Field, e.Reason)
}
