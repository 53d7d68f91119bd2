package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/internal/middleware"
	"github.com/promptdeck/promptdeck-backend/internal/service"
	"github.com/promptdeck/promptdeck-backend/pkg/ginutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SubmissionService is the business contract the handler depends on
type SubmissionService interface {
	Create(ctx context.Context, authorID string, req *domain.CreateSubmissionRequest) (*domain.Submission, error)
	Get(ctx context.Context, id string, actor service.Actor) (*domain.Submission, error)
	ListChannel(ctx context.Context, channel string, page, pageSize int, sortBy, sortOrder string) ([]domain.Submission, int64, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int, sortBy, sortOrder string) ([]domain.Submission, int64, error)
	ListByAuthor(ctx context.Context, authorID string, page, pageSize int) ([]domain.Submission, int64, error)
	ApplyAction(ctx context.Context, id string, actor service.Actor, action, note string) (*domain.Submission, error)
	History(ctx context.Context, id string, actor service.Actor) ([]domain.TransitionRecord, error)
}

// SubmissionHandler handles HTTP requests for submissions
type SubmissionHandler struct {
	service SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(service SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetRole(c),
	}
}

func pageParams(c *gin.Context) (int, int) {
	page := ginutil.QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := ginutil.QueryInt(c, "page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Create godoc
// @Summary      Submit a prompt listing
// @Description  Creates a new submission; it enters the pending moderation queue (or draft if marked private)
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateSubmissionRequest  true  "submission payload"
// @Success      201  {object}  common.APIResponse{data=domain.Submission}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req domain.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	authorID := middleware.GetUserID(c)
	sub, err := h.service.Create(c.Request.Context(), authorID, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.CreatedResponse(c, sub)
}

// List godoc
// @Summary      List submissions
// @Description  Public approved channels (free/paid) for everyone; other statuses are the admin moderation queue
// @Tags         submissions
// @Produce      json
// @Param        status      query  string  false  "status filter (default approved)"
// @Param        channel     query  string  false  "free or paid (approved only)"
// @Param        page        query  int     false  "page number"  default(1)
// @Param        page_size   query  int     false  "items per page"  default(20)
// @Param        sort_by     query  string  false  "created_at, rating, downloads, views or price"
// @Param        sort_order  query  string  false  "asc or desc"  default(desc)
// @Success      200  {object}  common.APIResponse{data=[]domain.Submission}
// @Failure      403  {object}  common.APIResponse
// @Router       /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	status := ginutil.QueryString(c, "status", domain.StatusApproved)
	page, pageSize := pageParams(c)
	sortBy := ginutil.QueryString(c, "sort_by", "created_at")
	sortOrder := ginutil.QueryString(c, "sort_order", "desc")

	var (
		items []domain.Submission
		total int64
		err   error
	)

	if status == domain.StatusApproved {
		channel := c.Query("channel")
		items, total, err = h.service.ListChannel(c.Request.Context(), channel, page, pageSize, sortBy, sortOrder)
	} else {
		// Non-approved listings are the moderation queue
		if middleware.GetRole(c) != domain.RoleAdmin {
			common.ErrorResponse(c, http.StatusForbidden, "Admin role required", nil)
			return
		}
		items, total, err = h.service.ListByStatus(c.Request.Context(), status, page, pageSize, sortBy, sortOrder)
	}
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.SuccessWithMeta(c, items, common.NewMeta(page, pageSize, total))
}

// Get godoc
// @Summary      Get a submission
// @Description  Approved public submissions are visible to anyone; others only to their author and admins
// @Tags         submissions
// @Produce      json
// @Param        id  path  string  true  "submission id"
// @Success      200  {object}  common.APIResponse{data=domain.Submission}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.service.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, sub)
}

// UpdateStatus godoc
// @Summary      Apply a moderation action
// @Description  approve/reject (admin), submit/resubmit (author); every applied transition writes one audit entry
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                      true  "submission id"
// @Param        request  body  domain.UpdateStatusRequest  true  "action payload"
// @Success      200  {object}  common.APIResponse{data=domain.Submission}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /submissions/{id}/status [put]
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	actor := actorFrom(c)

	sub, err := h.service.ApplyAction(c.Request.Context(), id, actor, req.Action, req.Note)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.SuccessResponse(c, sub)
}

// History godoc
// @Summary      Get the transition history of a submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "submission id"
// @Success      200  {object}  common.APIResponse{data=[]domain.TransitionRecord}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /submissions/{id}/history [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, records)
}

// ListQueue godoc
// @Summary      List the moderation queue
// @Description  Admin view over any status; defaults to the pending queue
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status      query  string  false  "status filter"  default(pending)
// @Param        page        query  int     false  "page number"  default(1)
// @Param        page_size   query  int     false  "items per page"  default(20)
// @Param        sort_by     query  string  false  "sort key"
// @Param        sort_order  query  string  false  "asc or desc"
// @Success      200  {object}  common.APIResponse{data=[]domain.Submission}
// @Failure      401  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /admin/submissions [get]
func (h *SubmissionHandler) ListQueue(c *gin.Context) {
	status := ginutil.QueryString(c, "status", domain.StatusPending)
	page, pageSize := pageParams(c)
	sortBy := ginutil.QueryString(c, "sort_by", "created_at")
	sortOrder := ginutil.QueryString(c, "sort_order", "asc")

	items, total, err := h.service.ListByStatus(c.Request.Context(), status, page, pageSize, sortBy, sortOrder)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.SuccessWithMeta(c, items, common.NewMeta(page, pageSize, total))
}

// ListMine godoc
// @Summary      List the caller's own submissions, any status
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        page       query  int  false  "page number"  default(1)
// @Param        page_size  query  int  false  "items per page"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Submission}
// @Failure      401  {object}  common.APIResponse
// @Router       /my/submissions [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.service.ListByAuthor(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, pageSize, total))
}
