package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"monthly-club.backend/internal/domain/entities"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/internal/infrastructure/models"
)

// OrphanRepository stores processor objects awaiting cleanup
type OrphanRepository struct {
	db *gorm.DB
}

// NewOrphanRepository creates a new orphan repository
func NewOrphanRepository(db *gorm.DB) *OrphanRepository {
	return &OrphanRepository{db: db}
}

// Create records an orphaned processor object
func (r *OrphanRepository) Create(ctx context.Context, orphan *entities.OrphanedProcessorObject) error {
	m := &models.OrphanedProcessorObject{
		ID:          orphan.ID,
		Kind:        string(orphan.Kind),
		ProcessorID: orphan.ProcessorID,
		OwnerID:     orphan.OwnerID,
		Reason:      orphan.Reason,
		Attempts:    orphan.Attempts,
		LastError:   orphan.LastError.Ptr(),
		ResolvedAt:  orphan.ResolvedAt.Ptr(),
		CreatedAt:   orphan.CreatedAt,
		UpdatedAt:   orphan.UpdatedAt,
	}
	return wrapErr(GetDB(ctx, r.db).Create(m).Error, nil)
}

// ListUnresolved lists the oldest unresolved orphans first
func (r *OrphanRepository) ListUnresolved(ctx context.Context, limit int) ([]*entities.OrphanedProcessorObject, error) {
	query := GetDB(ctx, r.db).Where("resolved_at IS NULL").Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.OrphanedProcessorObject
	if err := query.Find(&rows).Error; err != nil {
		return nil, wrapErr(err, nil)
	}

	orphans := make([]*entities.OrphanedProcessorObject, 0, len(rows))
	for i := range rows {
		orphans = append(orphans, r.toEntity(&rows[i]))
	}
	return orphans, nil
}

// MarkResolved marks an orphan as cleaned up at the processor
func (r *OrphanRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := GetDB(ctx, r.db).Model(&models.OrphanedProcessorObject{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Updates(map[string]interface{}{
			"resolved_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return wrapErr(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RecordFailure bumps the attempt counter and keeps the last failure reason
func (r *OrphanRepository) RecordFailure(ctx context.Context, id uuid.UUID, reason string) error {
	result := GetDB(ctx, r.db).Model(&models.OrphanedProcessorObject{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return wrapErr(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OrphanRepository) toEntity(m *models.OrphanedProcessorObject) *entities.OrphanedProcessorObject {
	return &entities.OrphanedProcessorObject{
		ID:          m.ID,
		Kind:        entities.OrphanKind(m.Kind),
		ProcessorID: m.ProcessorID,
		OwnerID:     m.OwnerID,
		Reason:      m.Reason,
		Attempts:    m.Attempts,
		LastError:   null.StringFromPtr(m.LastError),
		ResolvedAt:  null.TimeFromPtr(m.ResolvedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
