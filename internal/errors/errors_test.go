package errors_test

import (
	"testing"

	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored"))

	err := apperrors.Wrapf(apperrors.ErrUnknownAdvisor, "[Controller.SelectAdvisor] advisor %d", 12)
	require.EqualError(t, err, "[Controller.SelectAdvisor] advisor 12: unknown advisor")
	require.True(t, apperrors.Is(err, apperrors.ErrUnknownAdvisor))
}

func TestAs(t *testing.T) {
	err := apperrors.Wrapf(&apperrors.AuthError{Op: "login", Err: apperrors.ErrInvalidCredentials}, "[Store.Login]")

	var authErr *apperrors.AuthError
	require.True(t, apperrors.As(err, &authErr))
	require.Equal(t, "login", authErr.Op)
	require.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}
