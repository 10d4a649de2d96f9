package usecase

import (
	"context"

	"github.com/runoshun/gitask/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct {
	Reveal bool // Print credentials unmasked
}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Config *domain.Config // Effective configuration
	Path   string         // Config file location
}

// ShowConfig returns the effective configuration with credentials masked.
type ShowConfig struct {
	loader domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(loader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{loader: loader}
}

// Execute loads the configuration.
func (uc *ShowConfig) Execute(_ context.Context, in ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.loader.Load()
	if err != nil {
		return nil, err
	}
	if !in.Reveal {
		cfg = cfg.Masked()
	}
	return &ShowConfigOutput{Config: cfg, Path: uc.loader.Path()}, nil
}
