// Package gitlab implements domain.RepoHost on GitLab merge requests.
package gitlab

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/runoshun/gitask/internal/domain"
)

// DefaultBaseURL is used when no GitLab URL is configured.
const DefaultBaseURL = "https://gitlab.com"

// NewClient creates an authenticated client-go client.
// An empty baseURL means gitlab.com; opts are applied after the defaults.
func NewClient(token, baseURL string, opts ...gl.ClientOptionFunc) (*gl.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: gitlab token not configured (set %s)", domain.ErrConfiguration, domain.EnvGitToken)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	options := append([]gl.ClientOptionFunc{gl.WithBaseURL(baseURL), gl.WithoutRetries()}, opts...)
	client, err := gl.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gitlab url %q: %w", domain.ErrConfiguration, baseURL, err)
	}
	return client, nil
}

// toDomainError converts client-go errors into domain.RemoteError.
// Errors without an HTTP response (network, context) are returned unchanged.
func toDomainError(resp *gl.Response, err error) error {
	var glErr *gl.ErrorResponse
	if errors.As(err, &glErr) && glErr.Response != nil {
		return newRemoteError(glErr.Response.StatusCode, glErr.Body)
	}
	if resp != nil && resp.Response != nil {
		remote := &domain.RemoteError{Service: "gitlab", StatusCode: resp.StatusCode}
		remote.Messages = []string{err.Error()}
		return remote
	}
	return err
}

// newRemoteError decodes GitLab's "message"/"error" payloads, where message
// may be a string, a list, or a field map.
func newRemoteError(status int, body []byte) *domain.RemoteError {
	remote := &domain.RemoteError{Service: "gitlab", StatusCode: status}
	var payload struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch m := payload.Message.(type) {
		case string:
			remote.Messages = append(remote.Messages, m)
		case []any:
			for _, item := range m {
				remote.Messages = append(remote.Messages, fmt.Sprint(item))
			}
		case map[string]any:
			remote.FieldErrors = make(map[string]string, len(m))
			for field, v := range m {
				remote.FieldErrors[field] = joinAny(v)
			}
		}
		if payload.Error != "" {
			remote.Messages = append(remote.Messages, payload.Error)
		}
	}
	if len(remote.Messages) == 0 && len(remote.FieldErrors) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" {
			remote.Messages = []string{text}
		}
	}
	return remote
}

func joinAny(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, fmt.Sprint(item))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
