package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	usecaseMocks "github.com/adminsuite/vault/internal/vault/usecase/mocks"
)

func TestRunCleanAccessLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	days := 30

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := usecaseMocks.NewMockAccessLogUseCase(t)
		mockUseCase.On("CleanOlderThan", ctx, days, false).Return(int64(100), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockUseCase, logger, &out, days, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 100 access log entry(ies)")
	})

	t.Run("dry-run-text-output", func(t *testing.T) {
		mockUseCase := usecaseMocks.NewMockAccessLogUseCase(t)
		mockUseCase.On("CleanOlderThan", ctx, days, true).Return(int64(7), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockUseCase, logger, &out, days, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Dry-run mode: Would delete 7 access log entry(ies)")
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := usecaseMocks.NewMockAccessLogUseCase(t)
		mockUseCase.On("CleanOlderThan", ctx, days, true).Return(int64(50), nil)

		var out bytes.Buffer
		err := RunCleanAccessLogs(ctx, mockUseCase, logger, &out, days, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 50`)
		require.Contains(t, out.String(), `"dry_run": true`)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := usecaseMocks.NewMockAccessLogUseCase(t)
		mockUseCase.On("CleanOlderThan", ctx, -1, false).Return(int64(0), errors.New("retention days must be positive"))

		err := RunCleanAccessLogs(ctx, mockUseCase, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean access logs")
	})
}
