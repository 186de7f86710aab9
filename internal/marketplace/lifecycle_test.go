package marketplace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/ecosync/internal/errs"
)

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(StatusRequested, StatusActive))
	require.True(t, CanTransition(StatusRequested, StatusDisputed))

	require.False(t, CanTransition(StatusRequested, StatusCompleted))
	require.False(t, CanTransition(StatusActive, StatusDisputed))
	require.False(t, CanTransition(StatusActive, StatusCompleted))
	require.False(t, CanTransition(StatusDisputed, StatusActive))
	require.False(t, CanTransition(StatusCompleted, StatusRequested))
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(StatusRequested, StatusActive))
	require.ErrorIs(t, CheckTransition(StatusRequested, "shipped"), errs.ErrValidation)
	require.ErrorIs(t, CheckTransition("lost", StatusActive), errs.ErrValidation)
	require.ErrorIs(t, CheckTransition(StatusActive, StatusRequested), errs.ErrValidation)
}
