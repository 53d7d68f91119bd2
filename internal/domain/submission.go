package domain

import "time"

// Submission status values. No other value is ever persisted.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Listing channels for approved submissions
const (
	ChannelFree = "free"
	ChannelPaid = "paid"
)

// ValidStatus reports whether s is one of the four known statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission represents a prompt listing awaiting or having received moderation
type Submission struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	AuthorID  string    `gorm:"column:author_id;type:varchar(36);index" json:"author_id"`
	Title     string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Body      string    `gorm:"column:body;type:mediumtext" json:"body"`
	Status    string    `gorm:"column:status;type:varchar(16);default:'pending';index" json:"status"`
	Public    bool      `gorm:"column:public" json:"public"`
	Price     int64     `gorm:"column:price;default:0" json:"price"` // minor units; 0 = free channel
	Rating    float64   `gorm:"column:rating;default:0" json:"rating"`
	Downloads uint      `gorm:"column:downloads;default:0" json:"downloads"`
	Views     uint      `gorm:"column:views;default:0" json:"views"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Submission) TableName() string { return "submissions" }

// Channel returns the public listing channel this submission belongs to
// when approved: free for zero price, paid otherwise.
func (s *Submission) Channel() string {
	if s.Price == 0 {
		return ChannelFree
	}
	return ChannelPaid
}

// Listable reports whether the submission may appear in a public channel
func (s *Submission) Listable() bool {
	return s.Status == StatusApproved && s.Public
}

// CreateSubmissionRequest is the payload for POST /submissions.
// Public is a pointer so an explicit false survives decoding; omitted
// means publicly visible.
type CreateSubmissionRequest struct {
	Title   string `json:"title" binding:"required"`
	Body    string `json:"body" binding:"required"`
	Price   int64  `json:"price"`
	Public  *bool  `json:"public"`
	Private bool   `json:"private"` // private drafts start in draft instead of pending
}

// UpdateStatusRequest is the payload for PUT /submissions/:id/status
type UpdateStatusRequest struct {
	Action string `json:"action" binding:"required"` // submit, approve, reject, resubmit
	Note   string `json:"note"`
}
