package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/internal/domain/repositories"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/metrics"
	"monthly-club.backend/pkg/utils"
)

// SweepResult summarizes one orphan sweep
type SweepResult struct {
	Resolved int `json:"resolved"`
	// Kept counts orphans resolved without a delete because a row still
	// references them. They are included in Resolved.
	Kept   int `json:"kept"`
	Failed int `json:"failed"`
}

// OrphanReconcileUsecase deletes processor objects that no row references
type OrphanReconcileUsecase struct {
	orphanRepo   repositories.OrphanRepository
	profileRepo  repositories.CustomerPaymentProfileRepository
	businessRepo repositories.BusinessRepository
	processor    gateways.PaymentProcessor
}

// NewOrphanReconcileUsecase creates a new orphan reconcile usecase
func NewOrphanReconcileUsecase(
	orphanRepo repositories.OrphanRepository,
	profileRepo repositories.CustomerPaymentProfileRepository,
	businessRepo repositories.BusinessRepository,
	processor gateways.PaymentProcessor,
) *OrphanReconcileUsecase {
	return &OrphanReconcileUsecase{
		orphanRepo:   orphanRepo,
		profileRepo:  profileRepo,
		businessRepo: businessRepo,
		processor:    processor,
	}
}

// List returns unresolved orphans, oldest first
func (u *OrphanReconcileUsecase) List(ctx context.Context, limit int) ([]*entities.OrphanedProcessorObject, error) {
	return u.orphanRepo.ListUnresolved(ctx, limit)
}

// Sweep deletes up to limit unresolved orphans at the processor. A failed
// delete is recorded on the row and retried by the next sweep.
func (u *OrphanReconcileUsecase) Sweep(ctx context.Context, limit int) (*SweepResult, error) {
	orphans, err := u.orphanRepo.ListUnresolved(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, o := range orphans {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		referenced, err := u.stillReferenced(ctx, o)
		if err == nil && !referenced {
			err = u.deleteRemote(ctx, o)
		}
		if err != nil {
			result.Failed++
			metrics.OrphansSwept.WithLabelValues(string(o.Kind), metrics.OutcomeError).Inc()
			logger.Warn(ctx, "Orphan cleanup failed",
				zap.String("orphan_id", o.ID.String()),
				zap.String("processor_id", o.ProcessorID),
				zap.Int("attempts", o.Attempts+1),
				zap.Error(err),
			)
			if recErr := u.orphanRepo.RecordFailure(ctx, o.ID, err.Error()); recErr != nil {
				logger.Error(ctx, "Failed to record orphan cleanup failure", zap.String("orphan_id", o.ID.String()), zap.Error(recErr))
			}
			continue
		}

		if referenced {
			// The write that looked failed had committed
			logger.Warn(ctx, "Orphan still referenced, keeping processor object",
				zap.String("orphan_id", o.ID.String()),
				zap.String("kind", string(o.Kind)),
				zap.String("processor_id", o.ProcessorID),
			)
		}
		if err := u.orphanRepo.MarkResolved(ctx, o.ID); err != nil {
			result.Failed++
			logger.Error(ctx, "Orphan handled but not marked resolved", zap.String("orphan_id", o.ID.String()), zap.Error(err))
			continue
		}
		result.Resolved++
		if referenced {
			result.Kept++
		}
		metrics.OrphansSwept.WithLabelValues(string(o.Kind), metrics.OutcomeSuccess).Inc()
	}

	if len(orphans) > 0 {
		logger.Info(ctx, "Orphan sweep finished",
			zap.Int("resolved", result.Resolved),
			zap.Int("kept", result.Kept),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// stillReferenced reports whether the owning row points at the orphan's
// processor id. A missing owner row means nothing references it.
func (u *OrphanReconcileUsecase) stillReferenced(ctx context.Context, o *entities.OrphanedProcessorObject) (bool, error) {
	switch o.Kind {
	case entities.OrphanKindAccount:
		business, err := u.businessRepo.GetByID(ctx, o.OwnerID)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return business.PayoutAccountID.Valid && business.PayoutAccountID.String == o.ProcessorID, nil
	case entities.OrphanKindCustomer:
		profile, err := u.profileRepo.GetByUserID(ctx, o.OwnerID)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return profile.ProcessorCustomerID == o.ProcessorID, nil
	default:
		return false, fmt.Errorf("unknown orphan kind %q", o.Kind)
	}
}

func (u *OrphanReconcileUsecase) deleteRemote(ctx context.Context, o *entities.OrphanedProcessorObject) error {
	switch o.Kind {
	case entities.OrphanKindAccount:
		return u.processor.DeleteAccount(ctx, o.ProcessorID)
	case entities.OrphanKindCustomer:
		return u.processor.DeleteCustomer(ctx, o.ProcessorID)
	default:
		return fmt.Errorf("unknown orphan kind %q", o.Kind)
	}
}

// recordOrphan stores a processor object for later cleanup. Failure to record
// is logged only; the caller's request outcome does not depend on it.
func recordOrphan(ctx context.Context, repo repositories.OrphanRepository, kind entities.OrphanKind, processorID string, ownerID uuid.UUID, reason string) {
	metrics.OrphanedObjects.WithLabelValues(string(kind)).Inc()

	now := time.Now()
	orphan := &entities.OrphanedProcessorObject{
		ID:          utils.NewID(),
		Kind:        kind,
		ProcessorID: processorID,
		OwnerID:     ownerID,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(ctx, orphan); err != nil {
		logger.Error(ctx, "Failed to record orphaned processor object",
			zap.String("kind", string(kind)),
			zap.String("processor_id", processorID),
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
		return
	}
	logger.Warn(ctx, "Recorded orphaned processor object",
		zap.String("kind", string(kind)),
		zap.String("processor_id", processorID),
		zap.String("reason", reason),
	)
}
