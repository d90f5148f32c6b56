package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	vaultUsecase "github.com/adminsuite/vault/internal/vault/usecase"
)

// RunCleanAccessLogs deletes access log entries older than the specified
// number of days. Supports dry-run mode to preview the deletion count and both
// text/JSON output formats.
//
// Requirements: database must be migrated and accessible.
func RunCleanAccessLogs(
	ctx context.Context,
	accessLogUseCase vaultUsecase.AccessLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning access logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := accessLogUseCase.CleanOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean access logs: %w", err)
	}

	if format == "json" {
		if err := outputCleanJSON(writer, count, days, dryRun); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputCleanText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d access log entry(ies) older than %d day(s)\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d access log entry(ies) older than %d day(s)\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(writer io.Writer, count int64, days int, dryRun bool) error {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
