// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/runoshun/gitask/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from a JSON (or TOML/YAML) file plus GITASK_* environment variables.
type Loader struct {
	path string
}

// NewLoader creates a Loader for the path named by GITASK_CONFIG_PATH,
// falling back to ~/.config/gitask/config.json.
func NewLoader() *Loader {
	return NewLoaderWithPath(ResolvePath(os.Getenv))
}

// NewLoaderWithPath creates a new Loader for an explicit path.
// This is useful for testing.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

// credentialEnv maps credential keys to the environment variables bound to them.
var credentialEnv = map[string]string{
	"pmt-url":   domain.EnvPMTURL,
	"pmt-token": domain.EnvPMTToken,
	"pmt-user":  domain.EnvPMTUser,
	"git-url":   domain.EnvGitURL,
	"git-token": domain.EnvGitToken,
}

// loadCredentials reads connection settings from the environment only.
// The viper instance is separate from the file one so the config file cannot supply secrets.
func loadCredentials() (pmt, git domain.Credentials, err error) {
	env := viper.New()
	for key, name := range credentialEnv {
		if err := env.BindEnv(key, name); err != nil {
			return pmt, git, fmt.Errorf("%w: bind %s: %w", domain.ErrConfiguration, name, err)
		}
	}
	pmt = domain.Credentials{
		URL:   strings.TrimRight(env.GetString("pmt-url"), "/"),
		Token: env.GetString("pmt-token"),
		User:  env.GetString("pmt-user"),
	}
	git = domain.Credentials{
		URL:   strings.TrimRight(env.GetString("git-url"), "/"),
		Token: env.GetString("git-token"),
	}
	return pmt, git, nil
}

// ResolvePath returns the config file location for the given environment.
func ResolvePath(getenv func(string) string) string {
	if p := getenv(domain.EnvConfigPath); p != "" {
		return p
	}
	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.DefaultConfigPath(configHome)
}

// Path returns the configuration file location.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the configuration file and validates required keys.
func (l *Loader) Load() (*domain.Config, error) {
	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: configuration file not found at %s", domain.ErrConfiguration, l.path)
		}
		return nil, fmt.Errorf("%w: read config file %s: %w", domain.ErrConfiguration, l.path, err)
	}

	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType(configType(l.path))
	v.SetDefault(domain.KeyDefaultBranch, domain.DefaultTargetBranch)
	v.SetDefault(domain.KeyLogLevel, domain.DefaultLogLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %w", domain.ErrConfiguration, l.path, err)
	}

	var missing []string
	for _, key := range domain.RequiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}

	cfg := &domain.Config{
		PMTType:        strings.ToLower(strings.TrimSpace(v.GetString(domain.KeyPMTType))),
		VCSType:        strings.ToLower(strings.TrimSpace(v.GetString(domain.KeyVCSType))),
		GitProject:     v.GetString(domain.KeyGitProject),
		CurrentTicket:  v.GetString(domain.KeyCurrentTicket),
		ReviewerField:  v.GetString(domain.KeyReviewerField),
		GitBranchField: v.GetString(domain.KeyGitBranchField),
		DefaultBranch:  v.GetString(domain.KeyDefaultBranch),
		LogLevel:       v.GetString(domain.KeyLogLevel),
		Statuses: domain.Statuses{
			ToDo:       stringList(v.Get(domain.KeyToDo)),
			InProgress: stringList(v.Get(domain.KeyInProgress)),
			InReview:   stringList(v.Get(domain.KeyInReview)),
			Done:       stringList(v.Get(domain.KeyDone)),
		},
		Path: l.path,
	}

	pmt, git, err := loadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.PMT, cfg.Git = pmt, git

	hooks, err := parseHooks(v.Get(domain.KeyHooks))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, l.path, err)
	}
	cfg.Hooks = hooks

	return cfg, nil
}

// configType picks the viper decoder from the file extension. JSON is the default.
func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// stringList accepts either a list or a single string. Blank entries are dropped.
func stringList(raw any) []string {
	var items []any
	switch val := raw.(type) {
	case nil:
		return nil
	case []any:
		items = val
	case []string:
		for _, s := range val {
			items = append(items, s)
		}
	default:
		items = []any{val}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		s, ok := item.(string)
		if !ok {
			s = fmt.Sprint(item)
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseHooks converts {"action": {"pre": path, "post": path}}.
func parseHooks(raw any) (map[string]domain.HookConfig, error) {
	hooks := make(map[string]domain.HookConfig)
	if raw == nil {
		return hooks, nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an object", domain.KeyHooks)
	}
	for action, value := range section {
		entry, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("hooks.%s must be an object with pre/post", action)
		}
		var hc domain.HookConfig
		for phase, path := range entry {
			s, ok := path.(string)
			if !ok {
				return nil, fmt.Errorf("hooks.%s.%s must be a string", action, phase)
			}
			switch strings.ToLower(phase) {
			case domain.HookPre:
				hc.Pre = s
			case domain.HookPost:
				hc.Post = s
			default:
				return nil, fmt.Errorf("hooks.%s: unknown phase %q", action, phase)
			}
		}
		hooks[strings.ToLower(action)] = hc
	}
	return hooks, nil
}
