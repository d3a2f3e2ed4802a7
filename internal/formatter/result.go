package formatter

import (
	"fmt"
	"strings"
)

// Status is the execution outcome of a step.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusPending
	StatusUndefined
)

var statusNames = []string{"passed", "failed", "skipped", "pending", "undefined"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus resolves a status name, case-insensitively.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q (want one of %s)", name, strings.Join(statusNames, ", "))
}

// Result is the execution result paired with a step.
type Result struct {
	Status       Status
	ErrorMessage string
}

// Failed reports whether the result carries a failure.
func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

func (r Result) String() string {
	if r.ErrorMessage == "" {
		return r.Status.String()
	}
	return r.Status.String() + ": " + r.ErrorMessage
}
