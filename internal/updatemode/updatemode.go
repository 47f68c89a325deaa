// Package updatemode turns the update-related CLI flags into a decision
// about whether to pull the latest setup profile.
package updatemode

import (
	"errors"

	"pysetup/internal/logger"
)

// Mode is how the update decision is made.
type Mode int

const (
	// Prompt asks the user (no update flag given).
	Prompt Mode = iota
	// Always fetches without asking (-u, --update, --ci).
	Always
	// Never skips the fetch without asking (-n, --no-update).
	Never
)

func (m Mode) String() string {
	switch m {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "prompt"
	}
}

// ErrConflict is returned when both an update and a no-update flag are set.
var ErrConflict = errors.New("--update/--ci and --no-update cannot be combined")

// FromFlags maps the flag values to a Mode. --update and --ci are equivalent
// for this decision.
func FromFlags(update, ci, noUpdate bool) (Mode, error) {
	switch {
	case (update || ci) && noUpdate:
		return Prompt, ErrConflict
	case update || ci:
		return Always, nil
	case noUpdate:
		return Never, nil
	default:
		return Prompt, nil
	}
}

// Confirmer is the part of prompt.Prompter the decision needs.
type Confirmer interface {
	Confirm(question string, defYes bool) bool
	Interactive() bool
}

// Resolve returns whether to fetch. In Prompt mode the question is asked with
// a default of "no"; without a terminal the default is used and a warning
// tells the user how to choose explicitly.
func Resolve(m Mode, c Confirmer, question string) bool {
	switch m {
	case Always:
		logger.Debug("[DEBUG] Update forced by flag\n")
		return true
	case Never:
		logger.Debug("[DEBUG] Update disabled by flag\n")
		return false
	}

	if !c.Interactive() {
		logger.Warn("[WARN] No terminal to ask on; skipping profile update (pass --update or --no-update)\n")
		return false
	}
	return c.Confirm(question, false)
}
