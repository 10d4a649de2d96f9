package usecase

import (
	"context"

	"github.com/runoshun/gitask/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Force bool // Overwrite an existing file
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig writes the configuration template.
type InitConfig struct {
	writer domain.ConfigWriter
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(writer domain.ConfigWriter) *InitConfig {
	return &InitConfig{writer: writer}
}

// Execute creates the configuration file from the template.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	if err := uc.writer.InitConfig(in.Force); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: uc.writer.Path()}, nil
}
