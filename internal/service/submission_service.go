package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/internal/repository"
	pkgcache "github.com/promptdeck/promptdeck-backend/pkg/cache"
	"github.com/promptdeck/promptdeck-backend/pkg/logger"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "submission_transitions_total",
		Help: "Total number of applied submission status transitions",
	},
	[]string{"from", "to"},
)

// SubmissionStore is the persistence contract the service depends on.
// Implemented by repository.SubmissionRepository; mocked in tests.
type SubmissionStore interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	ListByStatus(ctx context.Context, q repository.ListQuery) ([]domain.Submission, int64, error)
	ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Submission, int64, error)
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus, actorID, note string) (*domain.Submission, error)
	IncrementViews(ctx context.Context, id string) error
}

// TransitionLog reads the audit trail
type TransitionLog interface {
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.TransitionRecord, error)
}

// SubmissionService handles submission business logic
type SubmissionService struct {
	store        SubmissionStore
	log          TransitionLog
	cache        pkgcache.Service
	storeTimeout time.Duration
}

// NewSubmissionService creates a new SubmissionService.
// cache may be nil (tests, degraded mode without Redis).
func NewSubmissionService(store SubmissionStore, log TransitionLog, cache pkgcache.Service, storeTimeout time.Duration) *SubmissionService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &SubmissionService{
		store:        store,
		log:          log,
		cache:        cache,
		storeTimeout: storeTimeout,
	}
}

// withDeadline bounds a store call so it fails instead of hanging
func (s *SubmissionService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// mapStoreErr converts a deadline overrun into ErrUnavailable. Every other
// error kind passes through unchanged.
func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrUnavailable
	}
	return err
}

// Create validates and persists a new submission. Private content starts in
// draft, everything else goes straight to the pending queue.
func (s *SubmissionService) Create(ctx context.Context, authorID string, req *domain.CreateSubmissionRequest) (*domain.Submission, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, common.ErrInvalidContent
	}
	if req.Price < 0 {
		return nil, common.ErrInvalidContent
	}

	status := domain.StatusPending
	if req.Private {
		status = domain.StatusDraft
	}
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	sub := &domain.Submission{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Status:   status,
		Public:   public,
		Price:    req.Price,
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, mapStoreErr(err)
	}
	return sub, nil
}

// Get retrieves one submission. Approved public submissions are visible to
// anyone and count a view; everything else is restricted to the author and
// admins.
func (s *SubmissionService) Get(ctx context.Context, id string, actor Actor) (*domain.Submission, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if sub.Listable() {
		if err := s.store.IncrementViews(ctx, id); err != nil {
			logger.Get().Warn().Err(err).Str("submission_id", id).Msg("view counter update failed")
		}
		return sub, nil
	}

	if actor.ID != sub.AuthorID && actor.Role != domain.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return sub, nil
}

// ListChannel lists approved submissions for a public channel, cached
func (s *SubmissionService) ListChannel(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string) ([]domain.Submission, int64, error) {
	type cached struct {
		Items []domain.Submission `json:"items"`
		Total int64               `json:"total"`
	}

	if s.cache != nil {
		var hit cached
		if err := s.cache.GetListing(ctx, channel, page, pageSize, sortBy, sortOrder, &hit); err == nil {
			return hit.Items, hit.Total, nil
		}
	}

	dctx, cancel := s.withDeadline(ctx)
	defer cancel()
	items, total, err := s.store.ListByStatus(dctx, repository.ListQuery{
		Status:     domain.StatusApproved,
		Channel:    channel,
		PublicOnly: true,
		Page:       page,
		PageSize:   pageSize,
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	})
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, channel, page, pageSize, sortBy, sortOrder, cached{Items: items, Total: total}); err != nil {
			logger.Get().Warn().Err(err).Msg("listing cache write failed")
		}
	}
	return items, total, nil
}

// ListByStatus lists submissions of any status for the admin queue
func (s *SubmissionService) ListByStatus(ctx context.Context, status string, page, pageSize int, sortBy, sortOrder string) ([]domain.Submission, int64, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, 0, common.ErrInvalidInput
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	items, total, err := s.store.ListByStatus(ctx, repository.ListQuery{
		Status:    status,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return items, total, nil
}

// ListByAuthor lists the caller's own submissions, any status
func (s *SubmissionService) ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Submission, int64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	items, total, err := s.store.ListByAuthor(ctx, authorID, page, pageSize)
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return items, total, nil
}

// ApplyAction validates the requested action against the current status and
// the actor, then persists status change plus audit entry atomically.
//
// A lost race surfaces from the store as ErrVersionConflict; the transition
// is re-validated once against the fresh status, which either succeeds,
// reports ErrIllegalTransition (the new status does not allow the edge), or
// gives up with ErrConflict.
func (s *SubmissionService) ApplyAction(ctx context.Context, id string, actor Actor, action, note string) (*domain.Submission, error) {
	target, err := ResolveAction(action)
	if err != nil {
		return nil, err
	}

	sub, err := s.applyOnce(ctx, id, actor, target, note)
	if err == nil {
		s.invalidateListings(ctx)
		return sub, nil
	}
	if !errors.Is(err, repository.ErrVersionConflict) {
		return nil, err
	}

	// One retry against fresh state
	sub, err = s.applyOnce(ctx, id, actor, target, note)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, common.ErrConflict
		}
		return nil, err
	}
	s.invalidateListings(ctx)
	return sub, nil
}

func (s *SubmissionService) applyOnce(ctx context.Context, id string, actor Actor, target, note string) (*domain.Submission, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := ValidateTransition(sub.Status, target, actor, sub.AuthorID, note); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateStatus(ctx, id, sub.Status, target, actor.ID, note)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		return nil, mapStoreErr(err)
	}

	transitionsTotal.WithLabelValues(sub.Status, target).Inc()
	logger.Get().Info().
		Str("submission_id", id).
		Str("actor_id", actor.ID).
		Str("from", sub.Status).
		Str("to", target).
		Msg("submission status changed")

	return updated, nil
}

// History returns the audit trail of a submission; author or admin only
func (s *SubmissionService) History(ctx context.Context, id string, actor Actor) ([]domain.TransitionRecord, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if actor.ID != sub.AuthorID && actor.Role != domain.RoleAdmin {
		return nil, common.ErrForbidden
	}

	records, err := s.log.ListBySubmission(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return records, nil
}

func (s *SubmissionService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
