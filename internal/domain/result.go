package domain

// Result is the uniform outcome of every balance mutation. Domain
// violations and infrastructure faults both surface here as a failed
// Result; they are never raised to the caller.
type Result struct {
	Success     bool   `json:"success"`
	ChangesMade bool   `json:"changes_made"`
	Error       string `json:"error,omitempty"`
}

// Changed returns a successful result that altered persisted state.
func Changed() Result {
	return Result{Success: true, ChangesMade: true}
}

// Unchanged returns a successful result that left state as it was.
func Unchanged() Result {
	return Result{Success: true}
}

// Fail returns a failed result carrying a human-readable message.
func Fail(msg string) Result {
	return Result{Error: msg}
}
