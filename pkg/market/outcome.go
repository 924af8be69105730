package market

import (
	"fmt"
	"strings"
)

// OutcomeStatus is the terminal state of one provider within an orchestrated call.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped" // not applicable: missing credential, unmapped symbol or capability
)

// Outcome records what happened to a single provider. Failures are absorbed
// here instead of being returned to the caller.
type Outcome struct {
	Provider string
	Status   OutcomeStatus
	Attempts int
	Err      error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s=%s/%d: %v", o.Provider, o.Status, o.Attempts, o.Err)
	}
	return fmt.Sprintf("%s=%s/%d", o.Provider, o.Status, o.Attempts)
}

// Report lists outcomes in chain order.
type Report []Outcome

func (r Report) String() string {
	parts := make([]string, len(r))
	for i, o := range r {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// Find returns the outcome recorded for provider.
func (r Report) Find(provider string) (Outcome, bool) {
	for _, o := range r {
		if o.Provider == provider {
			return o, true
		}
	}
	return Outcome{}, false
}

// Succeeded returns the names of providers whose status is success.
func (r Report) Succeeded() []string {
	var names []string
	for _, o := range r {
		if o.Status == OutcomeSuccess {
			names = append(names, o.Provider)
		}
	}
	return names
}
