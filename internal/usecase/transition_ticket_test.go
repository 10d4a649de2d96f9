package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/gitask/internal/domain"
	"github.com/runoshun/gitask/internal/testutil"
	"github.com/runoshun/gitask/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTicket_Execute(t *testing.T) {
	t.Run("moves ticket to first reachable candidate", func(t *testing.T) {
		// Setup
		cfg := testutil.NewTestConfig()
		cfg.InReview = []string{"Peer Review", "Code Review", "In Review"}
		rec := &testutil.Recorder{}
		provider := testutil.NewMockTicketProvider()
		provider.Recorder = rec
		provider.Reachable = []string{"In Review", "code review"}
		resolver := &testutil.MockTicketResolver{Ticket: "PROJ-7", Recorder: rec}

		// Execute
		uc := usecase.NewTransitionTicket(cfg, provider, resolver, nil)
		out, err := uc.Execute(context.Background(), usecase.TransitionTicketInput{Phase: domain.PhaseInReview})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "PROJ-7", out.TicketID)
		assert.Equal(t, "code review", out.Status)
		assert.Equal(t, "PROJ-7", provider.UpdatedTicket)
		assert.Equal(t, []string{"resolve", "find:PROJ-7", "update:PROJ-7:code review"}, rec.Calls)
	})

	t.Run("no reachable candidate leaves ticket untouched", func(t *testing.T) {
		cfg := testutil.NewTestConfig()
		provider := testutil.NewMockTicketProvider()
		provider.Current = "Done"
		provider.Reachable = []string{"Reopened"}
		resolver := &testutil.MockTicketResolver{Ticket: "PROJ-7"}

		uc := usecase.NewTransitionTicket(cfg, provider, resolver, nil)
		out, err := uc.Execute(context.Background(), usecase.TransitionTicketInput{Phase: domain.PhaseInProgress})

		require.Error(t, err)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, domain.ErrNoValidTransition)
		assert.Contains(t, err.Error(), "invalid status transition from current status 'Done' for issue 'PROJ-7'")
		assert.Zero(t, provider.UpdateCount)
	})

	t.Run("empty candidates is a configuration error", func(t *testing.T) {
		cfg := testutil.NewTestConfig()
		cfg.Done = nil
		provider := testutil.NewMockTicketProvider()
		resolver := &testutil.MockTicketResolver{Ticket: "PROJ-7"}

		uc := usecase.NewTransitionTicket(cfg, provider, resolver, nil)
		_, err := uc.Execute(context.Background(), usecase.TransitionTicketInput{Phase: domain.PhaseDone})

		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Zero(t, resolver.Count)
	})

	t.Run("resolver failure stops before any provider call", func(t *testing.T) {
		cfg := testutil.NewTestConfig()
		rec := &testutil.Recorder{}
		provider := testutil.NewMockTicketProvider()
		provider.Recorder = rec
		resolver := &testutil.MockTicketResolver{Err: domain.ErrEmptyTicket, Recorder: rec}

		uc := usecase.NewTransitionTicket(cfg, provider, resolver, nil)
		_, err := uc.Execute(context.Background(), usecase.TransitionTicketInput{Phase: domain.PhaseToDo})

		assert.ErrorIs(t, err, domain.ErrEmptyTicket)
		assert.Equal(t, []string{"resolve"}, rec.Calls)
	})

	t.Run("update failure is returned", func(t *testing.T) {
		cfg := testutil.NewTestConfig()
		provider := testutil.NewMockTicketProvider()
		provider.Reachable = []string{"Done"}
		provider.UpdateErr = &domain.RemoteError{Service: "jira", StatusCode: 500}
		resolver := &testutil.MockTicketResolver{Ticket: "PROJ-7"}

		uc := usecase.NewTransitionTicket(cfg, provider, resolver, nil)
		_, err := uc.Execute(context.Background(), usecase.TransitionTicketInput{Phase: domain.PhaseDone})

		assert.ErrorIs(t, err, domain.ErrRemoteService)
		var remote *domain.RemoteError
		assert.True(t, errors.As(err, &remote))
	})
}
