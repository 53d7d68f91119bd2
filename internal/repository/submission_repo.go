package repository

import (
	"context"
	"errors"
	"time"

	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"gorm.io/gorm"
)

// ErrVersionConflict indicates that a concurrent modification won the race.
// The caller should re-read and re-validate against the fresh status.
var ErrVersionConflict = errors.New("submission was modified concurrently")

// Sort keys accepted by ListByStatus. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"rating":     "rating",
	"downloads":  "downloads",
	"views":      "views",
	"price":      "price",
}

// ListQuery describes a paginated, ordered listing request
type ListQuery struct {
	Status     string
	Channel    string // free, paid or empty for both
	PublicOnly bool   // restrict to publicly visible rows (channel views)
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string // asc or desc
}

// SubmissionRepository handles submission persistence
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission
func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// GetByID retrieves a single submission
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	var sub domain.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListByStatus retrieves paginated submissions filtered by status.
// Results are ordered by the requested sort key with id ASC as tiebreaker,
// so page boundaries stay deterministic under concurrent inserts.
func (r *SubmissionRepository) ListByStatus(ctx context.Context, q ListQuery) ([]domain.Submission, int64, error) {
	var subs []domain.Submission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Submission{})

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	switch q.Channel {
	case domain.ChannelFree:
		query = query.Where("price = 0")
	case domain.ChannelPaid:
		query = query.Where("price > 0")
	}
	// Channel views hide non-public rows; the moderation queue sees everything
	if q.PublicOnly {
		query = query.Where("public = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.SortOrder == "asc" {
		direction = "ASC"
	}

	offset := (q.Page - 1) * q.PageSize
	if err := query.Order(column + " " + direction).
		Order("id ASC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// ListByAuthor retrieves an author's own submissions, any status
func (r *SubmissionRepository) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Submission, int64, error) {
	var subs []domain.Submission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Submission{}).Where("author_id = ?", authorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Order("id ASC").
		Offset(offset).Limit(pageSize).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// UpdateStatus applies a status change together with its audit entry in one
// transaction: either both persist or neither does. The UPDATE is conditioned
// on fromStatus; zero rows affected means another writer got there first and
// ErrVersionConflict is returned.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, actorID, note string) (*domain.Submission, error) {
	var updated domain.Submission

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", id, fromStatus).
			Updates(map[string]interface{}{
				"status":     toStatus,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		record := domain.TransitionRecord{
			SubmissionID: id,
			ActorID:      actorID,
			FromStatus:   fromStatus,
			ToStatus:     toStatus,
			Note:         note,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// IncrementViews bumps the view counter without touching updated_at
func (r *SubmissionRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
