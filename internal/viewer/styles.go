package viewer

import "sync"

// Presentation rules were historically injected into a shared document head
// as a module-load side effect. Here registration is explicit and idempotent
// process-wide, with a teardown hook for hosts that re-initialize.

var (
	presentationMu         sync.Mutex
	presentationRegistered bool
)

// presentationRules are the viewport presentation defaults a host binding
// applies to the viewer container.
var presentationRules = map[string]string{
	"viewer-container": "position: relative; width: 100%; height: 100%; overflow: hidden;",
	"viewer-controls":  "position: absolute; bottom: 16px; right: 16px; display: flex; gap: 8px;",
	"viewer-canvas":    "display: block; width: 100%; height: 100%;",
}

// RegisterPresentation registers the viewer presentation rules once per
// process. It reports whether this call performed the registration.
func RegisterPresentation() bool {
	presentationMu.Lock()
	defer presentationMu.Unlock()
	if presentationRegistered {
		return false
	}
	presentationRegistered = true
	return true
}

// ResetPresentation clears the registration flag so a fresh host can
// register again. Intended for teardown and tests.
func ResetPresentation() {
	presentationMu.Lock()
	defer presentationMu.Unlock()
	presentationRegistered = false
}

// PresentationRules returns the registered rule set keyed by scope name.
func PresentationRules() map[string]string {
	rules := make(map[string]string, len(presentationRules))
	for k, v := range presentationRules {
		rules[k] = v
	}
	return rules
}
