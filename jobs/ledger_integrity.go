package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/quillbooks/quillbooks/internal/reports"
)

// IntegrityJob reconciles account balances against transaction history and
// logs any drift. Divergence is operational signal, not a task failure, so
// the task succeeds even when accounts do not reconcile.
type IntegrityJob struct {
	reports *reports.Service
	logger  *slog.Logger
}

// NewIntegrityJob constructs an IntegrityJob.
func NewIntegrityJob(reportsService *reports.Service, logger *slog.Logger) *IntegrityJob {
	return &IntegrityJob{reports: reportsService, logger: logger}
}

// Handle processes TaskLedgerIntegrity tasks.
func (j *IntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	var (
		results []reports.Reconciliation
		err     error
	)
	if len(payload.AccountIDs) > 0 {
		results, err = j.reports.ReconcileAccounts(ctx, payload.AccountIDs)
	} else {
		results, err = j.reports.ReconcileAll(ctx)
	}
	if err != nil {
		return err
	}
	diverged := 0
	for _, rec := range results {
		if !rec.Reconciled {
			diverged++
		}
	}
	j.logger.Info("ledger integrity scan finished",
		slog.Int("accounts", len(results)),
		slog.Int("diverged", diverged))
	return nil
}
