package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel(t *testing.T) {
	free := Submission{Price: 0}
	paid := Submission{Price: 4900}

	assert.Equal(t, ChannelFree, free.Channel())
	assert.Equal(t, ChannelPaid, paid.Channel())
}

func TestListable(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		public   bool
		listable bool
	}{
		{"approved public", StatusApproved, true, true},
		{"approved hidden", StatusApproved, false, false},
		{"pending public", StatusPending, true, false},
		{"rejected public", StatusRejected, true, false},
		{"draft public", StatusDraft, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Submission{Status: tt.status, Public: tt.public}
			assert.Equal(t, tt.listable, s.Listable())
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusPending, StatusApproved, StatusRejected} {
		assert.True(t, ValidStatus(s))
	}
	for _, s := range []string{"", "published", "deleted", "PENDING"} {
		assert.False(t, ValidStatus(s))
	}
}
