package domain

import (
	"fmt"
	"strings"
)

// Phase is a stage of the ticket workflow.
type Phase string

// Workflow phases, in lifecycle order.
const (
	PhaseToDo       Phase = "to-do"
	PhaseInProgress Phase = "in-progress"
	PhaseInReview   Phase = "in-review"
	PhaseDone       Phase = "done"
)

// Display returns a human-readable phase name.
func (p Phase) Display() string {
	switch p {
	case PhaseToDo:
		return "To Do"
	case PhaseInProgress:
		return "In Progress"
	case PhaseInReview:
		return "In Review"
	case PhaseDone:
		return "Done"
	}
	return string(p)
}

// Action names. Hooks are keyed by these.
const (
	ActionOpen           = "open"
	ActionStartWorking   = "start-working"
	ActionSubmitToReview = "submit-to-review"
	ActionDone           = "done"
)

// Capability is an optional provider feature.
type Capability string

// Provider capabilities.
const (
	CapabilityCustomFields Capability = "custom-fields"
	CapabilityUserLookup   Capability = "user-lookup"
)

// FirstReachable returns the first candidate, in candidate order, that is
// contained in reachable. Comparison ignores case and surrounding space.
func FirstReachable(candidates, reachable []string) (string, bool) {
	set := make(map[string]string, len(reachable))
	for _, r := range reachable {
		key := normalizeStatus(r)
		if _, ok := set[key]; !ok {
			set[key] = r
		}
	}
	for _, c := range candidates {
		if r, ok := set[normalizeStatus(c)]; ok {
			return r, true
		}
	}
	return "", false
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UserHandle identifies a user on a remote service.
type UserHandle struct {
	Username    string
	DisplayName string
	AccountID   string // Cloud-style opaque id, when the service has one
	ID          int64
}

// PullRequest describes a pull/merge request to open.
type PullRequest struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Reviewer     string
}

// DefaultTitle returns the title used when none is given.
func DefaultTitle(source, target string) string {
	return fmt.Sprintf("Merge %s into %s", source, target)
}

// WithDefaults fills an empty title.
func (pr PullRequest) WithDefaults() PullRequest {
	if pr.Title == "" {
		pr.Title = DefaultTitle(pr.SourceBranch, pr.TargetBranch)
	}
	return pr
}

// PullRequestResult is the outcome of opening a pull request.
type PullRequestResult struct {
	URL      string
	Number   int
	Existing bool // True when an already-open request was returned
}

// Hook phases.
const (
	HookPre  = "pre"
	HookPost = "post"
)

// HookInvocation describes one hook run.
type HookInvocation struct {
	Params     map[string]any // Always contains "args"
	Action     string
	Phase      string
	ScriptPath string
	TicketID   string
}

// NewHookParams builds hook parameters from positional args and options.
func NewHookParams(args []string, options map[string]any) map[string]any {
	if args == nil {
		args = []string{}
	}
	params := make(map[string]any, len(options)+1)
	for k, v := range options {
		params[k] = v
	}
	params["args"] = args
	return params
}
