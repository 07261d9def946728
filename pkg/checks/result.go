package checks

import (
	"time"
)

// Status is the outcome of a single check.
type Status string

const (
	// StatusPass indicates the check completed successfully.
	StatusPass Status = "pass"

	// StatusFail indicates the check failed.
	StatusFail Status = "fail"
)

// Check names in the order the suite runs them.
const (
	CheckHealth       = "health"
	CheckModels       = "models"
	CheckCompletion   = "completion"
	CheckStreaming    = "streaming"
	CheckSystemPrompt = "system_prompt"
)

// CheckOrder lists all check names in execution order.
var CheckOrder = []string{
	CheckHealth,
	CheckModels,
	CheckCompletion,
	CheckStreaming,
	CheckSystemPrompt,
}

// Result records the outcome of one check.
type Result struct {
	// Check is the check name, one of the Check* constants.
	Check string `json:"check"`

	// Status is pass or fail.
	Status Status `json:"status"`

	// Detail is a short human-readable note: the failure reason for a
	// failed check, or a summary line for a passed one.
	Detail string `json:"detail,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration_ns"`

	// Chunks is the number of stream chunks received. Only set by the
	// streaming check.
	Chunks int `json:"chunks,omitempty"`

	// Err holds the underlying error for a failed check. Not serialized;
	// Detail carries the message.
	Err error `json:"-"`
}

// Passed reports whether the check passed.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Report aggregates the results of one suite run.
type Report struct {
	// ID uniquely identifies this run.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration covers the whole run.
	Duration time.Duration `json:"duration_ns"`

	// Results holds one entry per executed check, in execution order.
	// A run aborted by a health failure contains only the health result.
	Results []Result `json:"results"`
}

// Passed reports whether every executed check passed and the run was not
// aborted early.
func (r *Report) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return len(r.Results) == len(CheckOrder)
}

// Counts returns the number of passed and failed checks.
func (r *Report) Counts() (passed, failed int) {
	for _, res := range r.Results {
		if res.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
