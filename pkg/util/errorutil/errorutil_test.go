package errorutil_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/donation-service/pkg/util/errorutil"
)

func TestToDomainError(t *testing.T) {
	require.Nil(t, apperrors.ToDomainError(nil))

	forbidden := apperrors.NewForbidden("forbidden access")
	wrapped := fmt.Errorf("update: %w", forbidden)
	got := apperrors.ToDomainError(wrapped)
	require.Equal(t, apperrors.CodeForbidden, got.Code)
	require.Equal(t, http.StatusForbidden, got.HTTPStatus)

	missing := apperrors.ToDomainError(fmt.Errorf("load: %w", pgx.ErrNoRows))
	require.Equal(t, apperrors.CodeNotFound, missing.Code)
	require.Equal(t, http.StatusOK, missing.HTTPStatus)

	opaque := errors.New("connection reset")
	internal := apperrors.ToDomainError(opaque)
	require.Equal(t, apperrors.CodeInternal, internal.Code)
	require.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	require.ErrorIs(t, internal, opaque)
}

func TestSentinelsMatchByCode(t *testing.T) {
	err := apperrors.NewExternalServiceFailure("payment intent creation failed", errors.New("card declined"))
	require.ErrorIs(t, err, apperrors.ErrExternalFailure)
	require.NotErrorIs(t, err, apperrors.ErrValidation)
	require.ErrorIs(t, apperrors.NewNotFound("user", nil), apperrors.ErrNotFound)
}
