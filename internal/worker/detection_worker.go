package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-copilot/internal/repository"
	"github.com/spec-kit/support-copilot/internal/service"
)

// DetectionWorker periodically sweeps customers with active issues for
// critical conditions, so unattended issues raise alerts even when no new
// analysis request arrives.
type DetectionWorker struct {
	analysis *service.AnalysisService
	issues   repository.IssueRepository
	interval time.Duration
	logger   *zap.Logger
}

// NewDetectionWorker constructs the worker.
func NewDetectionWorker(analysis *service.AnalysisService, issues repository.IssueRepository, interval time.Duration, logger *zap.Logger) *DetectionWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &DetectionWorker{
		analysis: analysis,
		issues:   issues,
		interval: interval,
		logger:   logger,
	}
}

// Run loops until the context is cancelled.
func (w *DetectionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *DetectionWorker) sweep(ctx context.Context) {
	customerIDs, err := w.issues.CustomersWithActiveIssues(ctx)
	if err != nil {
		w.logger.Warn("detection sweep skipped", zap.Error(err))
		return
	}

	raised := 0
	for _, customerID := range customerIDs {
		raised += len(w.analysis.RunDetection(ctx, customerID))
	}
	w.logger.Info("detection sweep completed",
		zap.Int("customers", len(customerIDs)),
		zap.Int("alerts_raised", raised))
}
