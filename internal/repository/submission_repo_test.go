package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Submission{}, &domain.TransitionRecord{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedSubmission(t *testing.T, repo *SubmissionRepository, sub domain.Submission) {
	t.Helper()
	if err := repo.Create(context.Background(), &sub); err != nil {
		t.Fatalf("failed to seed submission %s: %v", sub.ID, err)
	}
}

func TestSubmissionRepo_VisibilityOptOutSurvivesInsert(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	seedSubmission(t, repo, domain.Submission{
		ID:       "s1",
		AuthorID: "u1",
		Title:    "Unlisted pack",
		Body:     "for direct links only",
		Status:   domain.StatusPending,
		Public:   false,
	})

	got, err := repo.GetByID(context.Background(), "s1")
	assert.NoError(t, err)
	assert.False(t, got.Public, "explicit opt-out must not be overwritten by a column default")
}

func TestSubmissionRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrSubmissionNotFound)
}

func TestSubmissionRepo_ListByStatus_PublicOnlyScopesChannelViews(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	seedSubmission(t, repo, domain.Submission{
		ID: "s1", AuthorID: "u1", Title: "listed", Body: "b",
		Status: domain.StatusApproved, Public: true,
	})
	seedSubmission(t, repo, domain.Submission{
		ID: "s2", AuthorID: "u1", Title: "unlisted", Body: "b",
		Status: domain.StatusApproved, Public: false,
	})

	// Moderation view sees every approved row
	all, total, err := repo.ListByStatus(context.Background(), ListQuery{
		Status: domain.StatusApproved, Page: 1, PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	// Channel view hides the opted-out row
	visible, total, err := repo.ListByStatus(context.Background(), ListQuery{
		Status: domain.StatusApproved, PublicOnly: true, Page: 1, PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, visible, 1)
	assert.Equal(t, "s1", visible[0].ID)
}

func TestSubmissionRepo_ListByStatus_ChannelPriceSplit(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	seedSubmission(t, repo, domain.Submission{
		ID: "s1", AuthorID: "u1", Title: "free", Body: "b",
		Status: domain.StatusApproved, Public: true, Price: 0,
	})
	seedSubmission(t, repo, domain.Submission{
		ID: "s2", AuthorID: "u1", Title: "paid", Body: "b",
		Status: domain.StatusApproved, Public: true, Price: 4900,
	})

	free, total, err := repo.ListByStatus(context.Background(), ListQuery{
		Status: domain.StatusApproved, Channel: domain.ChannelFree, PublicOnly: true,
		Page: 1, PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "s1", free[0].ID)

	paid, total, err := repo.ListByStatus(context.Background(), ListQuery{
		Status: domain.StatusApproved, Channel: domain.ChannelPaid, PublicOnly: true,
		Page: 1, PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "s2", paid[0].ID)
}

func TestSubmissionRepo_ListByStatus_PagesNeitherOverlapNorSkip(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	// Identical created_at forces the id tiebreaker to decide every boundary
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 7; i++ {
		seedSubmission(t, repo, domain.Submission{
			ID: fmt.Sprintf("p%d", i), AuthorID: "u1", Title: "t", Body: "b",
			Status: domain.StatusPending, CreatedAt: ts,
		})
	}

	var seen []string
	for page := 1; page <= 3; page++ {
		items, total, err := repo.ListByStatus(context.Background(), ListQuery{
			Status: domain.StatusPending, Page: page, PageSize: 3,
			SortBy: "created_at", SortOrder: "desc",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(7), total)
		for _, s := range items {
			seen = append(seen, s.ID)
		}
	}

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}, seen)
}

func TestSubmissionRepo_UpdateStatus_WritesExactlyOneAuditEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	log := NewTransitionRepository(db)

	seedSubmission(t, repo, domain.Submission{
		ID: "s1", AuthorID: "u1", Title: "t", Body: "b",
		Status: domain.StatusPending, Public: true,
	})

	updated, err := repo.UpdateStatus(context.Background(), "s1", domain.StatusPending, domain.StatusApproved, "admin-1", "")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	records, err := log.ListBySubmission(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, domain.StatusPending, records[0].FromStatus)
	assert.Equal(t, domain.StatusApproved, records[0].ToStatus)
	assert.Equal(t, "admin-1", records[0].ActorID)
}

func TestSubmissionRepo_UpdateStatus_StaleWriterLosesCleanly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	log := NewTransitionRepository(db)

	seedSubmission(t, repo, domain.Submission{
		ID: "s1", AuthorID: "u1", Title: "t", Body: "b",
		Status: domain.StatusPending, Public: true,
	})

	_, err := repo.UpdateStatus(context.Background(), "s1", domain.StatusPending, domain.StatusApproved, "admin-1", "")
	assert.NoError(t, err)

	// Second writer still believes the submission is pending
	_, err = repo.UpdateStatus(context.Background(), "s1", domain.StatusPending, domain.StatusRejected, "admin-2", "nope")
	assert.True(t, errors.Is(err, ErrVersionConflict))

	got, err := repo.GetByID(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)

	records, err := log.ListBySubmission(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Len(t, records, 1, "a lost race must not leave an audit entry")
}

func TestSubmissionRepo_IncrementViews(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))

	seedSubmission(t, repo, domain.Submission{
		ID: "s1", AuthorID: "u1", Title: "t", Body: "b",
		Status: domain.StatusApproved, Public: true,
	})

	assert.NoError(t, repo.IncrementViews(context.Background(), "s1"))
	assert.NoError(t, repo.IncrementViews(context.Background(), "s1"))

	got, err := repo.GetByID(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, uint(2), got.Views)
}
