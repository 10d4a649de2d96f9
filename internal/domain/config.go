package domain

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
)

//go:embed config_template.json
var configTemplateContent string

// Config represents the application configuration.
// It is built once per process and treated as read-only afterwards.
// Fields are ordered to minimize memory padding.
type Config struct {
	Hooks          map[string]HookConfig `json:"hooks,omitempty" toml:"hooks,omitempty" yaml:"hooks,omitempty"`
	Statuses       `yaml:",inline"`
	PMT            Credentials           `json:"pmt" toml:"pmt" yaml:"pmt"`
	Git            Credentials           `json:"git" toml:"git" yaml:"git"`
	PMTType        string                `json:"pmt-type" toml:"pmt-type" yaml:"pmt-type"`
	VCSType        string                `json:"vcs-type" toml:"vcs-type" yaml:"vcs-type"`
	GitProject     string                `json:"git-project" toml:"git-project" yaml:"git-project"`
	CurrentTicket  string                `json:"current-ticket" toml:"current-ticket" yaml:"current-ticket"`
	ReviewerField  string                `json:"reviewer-field,omitempty" toml:"reviewer-field,omitempty" yaml:"reviewer-field,omitempty"`
	GitBranchField string                `json:"git-branch-field,omitempty" toml:"git-branch-field,omitempty" yaml:"git-branch-field,omitempty"`
	DefaultBranch  string                `json:"default-branch" toml:"default-branch" yaml:"default-branch"`
	LogLevel       string                `json:"log-level" toml:"log-level" yaml:"log-level"`
	Path           string                `json:"-" toml:"-" yaml:"-"` // Location the config was read from
}

// Statuses holds the ordered status candidates for each phase.
type Statuses struct {
	ToDo       []string `json:"to-do" toml:"to-do" yaml:"to-do"`
	InProgress []string `json:"in-progress" toml:"in-progress" yaml:"in-progress"`
	InReview   []string `json:"in-review" toml:"in-review" yaml:"in-review"`
	Done       []string `json:"done" toml:"done" yaml:"done"`
}

// Credentials holds the endpoint and token of a remote service.
// Values come from the environment only.
type Credentials struct {
	URL   string `json:"url,omitempty" toml:"url,omitempty" yaml:"url,omitempty"`
	Token string `json:"token,omitempty" toml:"token,omitempty" yaml:"token,omitempty"`
	User  string `json:"user,omitempty" toml:"user,omitempty" yaml:"user,omitempty"`
}

// HookConfig holds the script paths run around one action.
type HookConfig struct {
	Pre  string `json:"pre,omitempty" toml:"pre,omitempty" yaml:"pre,omitempty"`
	Post string `json:"post,omitempty" toml:"post,omitempty" yaml:"post,omitempty"`
}

// Configuration keys and environment variables.
const (
	KeyPMTType        = "pmt-type"
	KeyVCSType        = "vcs-type"
	KeyGitProject     = "git-project"
	KeyToDo           = "to-do"
	KeyInProgress     = "in-progress"
	KeyInReview       = "in-review"
	KeyDone           = "done"
	KeyCurrentTicket  = "current-ticket"
	KeyReviewerField  = "reviewer-field"
	KeyGitBranchField = "git-branch-field"
	KeyHooks          = "hooks"
	KeyDefaultBranch  = "default-branch"
	KeyLogLevel       = "log-level"

	EnvConfigPath = "GITASK_CONFIG_PATH"
	EnvPMTURL     = "GITASK_PMT_URL"
	EnvPMTToken   = "GITASK_PMT_TOKEN"
	EnvPMTUser    = "GITASK_PMT_USER"
	EnvGitURL     = "GITASK_GIT_URL"
	EnvGitToken   = "GITASK_GIT_TOKEN"
)

// RequiredKeys lists the mandatory configuration keys in declaration order.
var RequiredKeys = []string{
	KeyPMTType,
	KeyVCSType,
	KeyGitProject,
	KeyToDo,
	KeyInProgress,
	KeyInReview,
	KeyDone,
	KeyCurrentTicket,
}

// Defaults for optional settings.
const (
	DefaultTargetBranch = "master"
	DefaultLogLevel     = "info"
	AppDirName          = "gitask"
	ConfigFileName      = "config.json"
)

// DefaultConfigPath returns the config path under configHome (typically ~/.config).
func DefaultConfigPath(configHome string) string {
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}

// LogDir returns the log directory next to the config file.
func LogDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "logs")
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(logDir string) string {
	return filepath.Join(logDir, "gitask.log")
}

// TicketLogPath returns the path to the per-ticket log file.
func TicketLogPath(logDir, ticket string) string {
	return filepath.Join(logDir, fmt.Sprintf("ticket-%s.log", SafeFileName(ticket)))
}

// SafeFileName replaces path separators and spaces so s can be used in a file name.
func SafeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, s)
}

// Candidates returns the configured status candidates for phase.
func (c *Config) Candidates(phase Phase) []string {
	switch phase {
	case PhaseToDo:
		return c.Statuses.ToDo
	case PhaseInProgress:
		return c.Statuses.InProgress
	case PhaseInReview:
		return c.Statuses.InReview
	case PhaseDone:
		return c.Statuses.Done
	}
	return nil
}

// HookFor returns the hook configuration of action.
func (c *Config) HookFor(action string) HookConfig {
	if c.Hooks == nil {
		return HookConfig{}
	}
	return c.Hooks[action]
}

// TargetBranch returns branch, or the configured default when empty.
func (c *Config) TargetBranch(branch string) string {
	if branch != "" {
		return branch
	}
	if c.DefaultBranch != "" {
		return c.DefaultBranch
	}
	return DefaultTargetBranch
}

// Masked returns a copy with tokens replaced, for display.
func (c *Config) Masked() *Config {
	cp := *c
	cp.PMT.Token = maskToken(c.PMT.Token)
	cp.Git.Token = maskToken(c.Git.Token)
	return &cp
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

// ConfigTemplate returns the template written by "gitask configure".
func ConfigTemplate() string {
	return configTemplateContent
}
