package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorityFor(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updatedAt time.Time
		want      Priority
	}{
		{"just now", now, PriorityRecent},
		{"six days ago", now.Add(-6 * 24 * time.Hour), PriorityRecent},
		{"exactly seven days", now.Add(-7 * 24 * time.Hour), PriorityRecent},
		{"seven days and a second", now.Add(-7*24*time.Hour - time.Second), PriorityNormal},
		{"twenty days ago", now.Add(-20 * 24 * time.Hour), PriorityNormal},
		{"exactly thirty days", now.Add(-30 * 24 * time.Hour), PriorityNormal},
		{"thirty days and a second", now.Add(-30*24*time.Hour - time.Second), PriorityOld},
		{"a year ago", now.Add(-365 * 24 * time.Hour), PriorityOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFor(tt.updatedAt, now))
		})
	}
}

func TestValidMark(t *testing.T) {
	for mark := 1; mark <= 6; mark++ {
		assert.True(t, ValidMark(mark, UG), "UG mark %d", mark)
		assert.True(t, ValidMark(mark, PG), "PG mark %d", mark)
	}

	// 13 和 15 仅 PG 可用
	assert.False(t, ValidMark(13, UG))
	assert.False(t, ValidMark(15, UG))
	assert.True(t, ValidMark(13, PG))
	assert.True(t, ValidMark(15, PG))

	assert.False(t, ValidMark(0, UG))
	assert.False(t, ValidMark(7, PG))
	assert.False(t, ValidMark(14, PG))
	assert.False(t, ValidMark(-1, UG))
}

func TestValidUnit(t *testing.T) {
	assert.True(t, ValidUnit("Unit 1"))
	assert.True(t, ValidUnit("Unit 5"))
	assert.False(t, ValidUnit("Unit 6"))
	assert.False(t, ValidUnit("unit 1"))
	assert.False(t, ValidUnit(""))
}

func TestReviewed(t *testing.T) {
	assert.False(t, (&Question{Status: StatusPending}).Reviewed())
	assert.True(t, (&Question{Status: StatusAccepted}).Reviewed())
	assert.True(t, (&Question{Status: StatusRejected}).Reviewed())
}

func TestIsMCQ(t *testing.T) {
	assert.True(t, (&Question{Mark: 1}).IsMCQ())
	assert.False(t, (&Question{Mark: 2}).IsMCQ())
	assert.False(t, (&Question{Mark: 13}).IsMCQ())
}
