package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/runoshun/gitask/internal/domain"
)

// ShowConfigTemplateInput contains the input for the ShowConfigTemplate use case.
type ShowConfigTemplateInput struct{}

// ShowConfigTemplateOutput contains the output of the ShowConfigTemplate use case.
type ShowConfigTemplateOutput struct {
	Config   *domain.Config // Template decoded, for rendering in other formats
	Template string         // Template as written by configure
}

// ShowConfigTemplate returns the configuration template without writing it.
type ShowConfigTemplate struct{}

// NewShowConfigTemplate creates a new ShowConfigTemplate use case.
func NewShowConfigTemplate() *ShowConfigTemplate {
	return &ShowConfigTemplate{}
}

// Execute returns the template.
func (uc *ShowConfigTemplate) Execute(_ context.Context, _ ShowConfigTemplateInput) (*ShowConfigTemplateOutput, error) {
	template := domain.ConfigTemplate()
	var cfg domain.Config
	if err := json.Unmarshal([]byte(template), &cfg); err != nil {
		return nil, fmt.Errorf("decode config template: %w", err)
	}
	return &ShowConfigTemplateOutput{Template: template, Config: &cfg}, nil
}
