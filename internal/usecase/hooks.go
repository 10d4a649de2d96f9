package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/gitask/internal/domain"
)

// HookChain runs the configured pre hook, the action body, and the post hook.
// A failing pre hook skips the body; a failing body skips the post hook.
type HookChain struct {
	runner   domain.HookRunner
	resolver domain.TicketResolver
	logger   domain.Logger
	config   *domain.Config
}

// NewHookChain creates a HookChain.
func NewHookChain(cfg *domain.Config, runner domain.HookRunner, resolver domain.TicketResolver, logger domain.Logger) *HookChain {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &HookChain{
		config:   cfg,
		runner:   runner,
		resolver: resolver,
		logger:   logger,
	}
}

// Wrap runs body between the hooks configured for action.
// params are passed to scripts; they always carry an "args" entry.
func (h *HookChain) Wrap(ctx context.Context, action string, params map[string]any, body func(ctx context.Context) error) error {
	hooks := h.config.HookFor(action)
	if hooks.Pre == "" && hooks.Post == "" {
		return body(ctx)
	}
	if params == nil {
		params = domain.NewHookParams(nil, nil)
	}
	if _, ok := params["args"]; !ok {
		params["args"] = []string{}
	}

	ticket, err := h.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := h.run(ctx, action, domain.HookPre, hooks.Pre, ticket, params); err != nil {
		return err
	}
	if err := body(ctx); err != nil {
		return err
	}
	return h.run(ctx, action, domain.HookPost, hooks.Post, ticket, params)
}

func (h *HookChain) run(ctx context.Context, action, phase, script, ticket string, params map[string]any) error {
	if script == "" {
		return nil
	}
	h.logger.Info(ticket, "hook", fmt.Sprintf("%s-%s: %s", phase, action, script))
	err := h.runner.Run(ctx, domain.HookInvocation{
		Action:     action,
		Phase:      phase,
		ScriptPath: script,
		TicketID:   ticket,
		Params:     params,
	})
	if err != nil {
		h.logger.Error(ticket, "hook", err.Error())
		return fmt.Errorf("%s-%s hook: %w", phase, action, err)
	}
	return nil
}
