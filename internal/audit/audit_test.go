package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/audit"
	"github.com/BruksfildServices01/branch-queue/internal/dbtest"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

func TestDispatcherWritesOnClose(t *testing.T) {
	gdb := dbtest.New(t)
	d := audit.NewDispatcher(audit.New(gdb))

	branchID, userID, entityID := uint(3), uint(7), uint(11)
	d.Dispatch(audit.Event{
		BranchID: &branchID,
		UserID:   &userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: map[string]any{"time_slot": "09:00"},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, gdb.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "appointment_created", logs[0].Action)
	assert.Equal(t, branchID, *logs[0].BranchID)
	assert.JSONEq(t, `{"time_slot":"09:00"}`, logs[0].Metadata)

	// closed dispatchers drop silently
	d.Dispatch(audit.Event{Action: "late"})
	d.Close()
}

func TestNilDispatcher(t *testing.T) {
	var d *audit.Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "x"})
		d.Close()
	})
}
