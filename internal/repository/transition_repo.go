package repository

import (
	"context"

	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"gorm.io/gorm"
)

// TransitionRepository reads the append-only transition log.
// Writes happen inside SubmissionRepository.UpdateStatus so the audit entry
// and the status change share one transaction.
type TransitionRepository struct {
	db *gorm.DB
}

// NewTransitionRepository creates a new TransitionRepository
func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// ListBySubmission retrieves all transition records for a submission,
// oldest first
func (r *TransitionRepository) ListBySubmission(ctx context.Context, submissionID string) ([]domain.TransitionRecord, error) {
	var records []domain.TransitionRecord
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
