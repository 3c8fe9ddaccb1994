package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListOptions_LimitOffset(t *testing.T) {
	tests := []struct {
		name           string
		opts           ListOptions
		defaultPerPage int
		limit, offset  int
	}{
		{"zero value is first page", ListOptions{}, 10, 10, 0},
		{"page two", Page(2), 10, 10, 10},
		{"explicit page size", ListOptions{Page: 3, PerPage: 5}, 10, 5, 10},
		{"negative page clamps", Page(-4), 7, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.opts.limitOffset(tt.defaultPerPage)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestAuditLogFilter_Builders(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)

	f := NewAuditLogFilter().
		WithActor("admin").
		WithUser("u1").
		WithGroup("g1").
		WithPermission("p1").
		WithAction(AuditActionAssigned).
		WithTimeRange(since, until).
		WithPagination(20, 40)

	assert.Equal(t, "admin", f.ActorID)
	assert.Equal(t, "u1", f.UserID)
	assert.Equal(t, "g1", f.GroupID)
	assert.Equal(t, "p1", f.PermissionID)
	assert.Equal(t, "assigned", f.Action)
	assert.Equal(t, since, f.Since)
	assert.Equal(t, until, f.Until)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 40, f.Offset)

	assert.Equal(t, 100, NewAuditLogFilter().Limit)
}
