package scheduler

import (
	"context"
	"fmt"

	"github.com/xpro/backend/internal/application/integration"
	"go.uber.org/zap"
)

// SyncJobExecutor runs integration sync jobs against the application
// services
type SyncJobExecutor struct {
	vendorSync *integration.VendorSyncService
	crmSync    *integration.CRMSyncService
	logger     *zap.Logger
}

// NewSyncJobExecutor creates a new executor for integration jobs
func NewSyncJobExecutor(
	vendorSync *integration.VendorSyncService,
	crmSync *integration.CRMSyncService,
	logger *zap.Logger,
) *SyncJobExecutor {
	return &SyncJobExecutor{
		vendorSync: vendorSync,
		crmSync:    crmSync,
		logger:     logger,
	}
}

// Execute dispatches a job to the matching sync service
func (e *SyncJobExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeVendorFeedSync:
		stats, err := e.vendorSync.Sync(ctx)
		if err != nil {
			return fmt.Errorf("vendor feed sync failed: %w", err)
		}
		e.logger.Info("vendor feed sync job finished",
			zap.String("job_id", job.ID.String()),
			zap.Int("runs_created", stats.RunsCreated),
			zap.Int("runs_updated", stats.RunsUpdated),
			zap.Int("rows_failed", stats.RowsFailed),
		)
		return nil

	case JobTypeCRMErrorSweep:
		seen, err := e.crmSync.SweepSyncErrors(ctx)
		if err != nil {
			return fmt.Errorf("crm error sweep failed: %w", err)
		}
		if seen > 0 {
			e.logger.Info("crm error sweep job finished",
				zap.String("job_id", job.ID.String()),
				zap.Int("errors_seen", seen),
			)
		}
		return nil

	case JobTypeCRMContactSync:
		synced, err := e.crmSync.SyncAllContacts(ctx)
		if err != nil {
			return fmt.Errorf("crm contact sync failed after %d contacts: %w", synced, err)
		}
		e.logger.Info("crm contact sync job finished",
			zap.String("job_id", job.ID.String()),
			zap.Int("contacts_synced", synced),
		)
		return nil

	case JobTypeCRMProductSync:
		synced, err := e.crmSync.SyncAllProducts(ctx)
		if err != nil {
			return fmt.Errorf("crm product sync failed after %d products: %w", synced, err)
		}
		e.logger.Info("crm product sync job finished",
			zap.String("job_id", job.ID.String()),
			zap.Int("products_synced", synced),
		)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

// Ensure SyncJobExecutor implements JobExecutor
var _ JobExecutor = (*SyncJobExecutor)(nil)
