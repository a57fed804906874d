package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-core/internal/models"
)

func newResourceFixture(resources ...models.Resource) (*ResourceService, *mockResourceStore) {
	store := newMockResourceStore(resources...)
	return NewResourceService(store, nil, nil), store
}

func TestReserveAvailableResource(t *testing.T) {
	svc, store := newResourceFixture(models.Resource{ID: "r1", Name: "Projector", Type: "equipment", Status: models.ResourceStatusAvailable})

	ok, err := svc.Reserve(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	stored := store.resources["r1"]
	assert.Equal(t, models.ResourceStatusInUse, stored.Status)
	require.NotNil(t, stored.LastReservationDate)
	assert.WithinDuration(t, time.Now().UTC(), *stored.LastReservationDate, time.Minute)
}

func TestReserveInUseResourceIsSilentNoOp(t *testing.T) {
	reservedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc, store := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusInUse, LastReservationDate: &reservedAt})

	ok, err := svc.Reserve(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	stored := store.resources["r1"]
	assert.Equal(t, models.ResourceStatusInUse, stored.Status)
	require.NotNil(t, stored.LastReservationDate)
	assert.True(t, stored.LastReservationDate.Equal(reservedAt))
}

func TestReserveMaintenanceResourceFails(t *testing.T) {
	svc, store := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusMaintenance})

	ok, err := svc.Reserve(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.ResourceStatusMaintenance, store.resources["r1"].Status)
}

func TestReserveUnknownResource(t *testing.T) {
	svc, _ := newResourceFixture()

	ok, err := svc.Reserve(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseInUseResource(t *testing.T) {
	svc, store := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusInUse})

	ok, err := svc.Release(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.ResourceStatusAvailable, store.resources["r1"].Status)
}

func TestReleaseAvailableResourceFails(t *testing.T) {
	svc, _ := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusAvailable})

	ok, err := svc.Release(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseMaintenanceResourceFails(t *testing.T) {
	svc, store := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusMaintenance})

	ok, err := svc.Release(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.ResourceStatusMaintenance, store.resources["r1"].Status)
}

func TestSetMaintenanceFromAnyState(t *testing.T) {
	for _, status := range []models.ResourceStatus{models.ResourceStatusAvailable, models.ResourceStatusInUse, models.ResourceStatusMaintenance} {
		svc, store := newResourceFixture(models.Resource{ID: "r1", Status: status})

		ok, err := svc.SetMaintenance(context.Background(), "r1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, models.ResourceStatusMaintenance, store.resources["r1"].Status)
	}
}

func TestSetMaintenanceUnknownResource(t *testing.T) {
	svc, _ := newResourceFixture()

	ok, err := svc.SetMaintenance(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMaintenanceHasNoStateMachineExit(t *testing.T) {
	svc, store := newResourceFixture(models.Resource{ID: "r1", Status: models.ResourceStatusMaintenance})

	reserved, err := svc.Reserve(context.Background(), "r1")
	require.NoError(t, err)
	released, err := svc.Release(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.False(t, released)
	assert.Equal(t, models.ResourceStatusMaintenance, store.resources["r1"].Status)

	// Direct update is the documented way back into rotation.
	affected, err := svc.UpdateResource(context.Background(), "r1", map[string]interface{}{"status": models.ResourceStatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, models.ResourceStatusAvailable, store.resources["r1"].Status)
}

func TestAddResourceDefaultsToAvailable(t *testing.T) {
	svc, store := newResourceFixture()

	id, err := svc.AddResource(context.Background(), &models.Resource{Name: "Lab 3", Type: "room"})
	require.NoError(t, err)
	assert.Equal(t, models.ResourceStatusAvailable, store.resources[id].Status)
}

func TestGetResourceStats(t *testing.T) {
	svc, _ := newResourceFixture(
		models.Resource{ID: "r1", Status: models.ResourceStatusAvailable},
		models.Resource{ID: "r2", Status: models.ResourceStatusAvailable},
		models.Resource{ID: "r3", Status: models.ResourceStatusInUse},
		models.Resource{ID: "r4", Status: models.ResourceStatusMaintenance},
	)

	stats, err := svc.GetResourceStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Available)
	assert.Equal(t, 1, stats.InUse)
	assert.Equal(t, 1, stats.Maintenance)
}

func TestGetAvailableResources(t *testing.T) {
	svc, _ := newResourceFixture(
		models.Resource{ID: "r1", Status: models.ResourceStatusAvailable},
		models.Resource{ID: "r2", Status: models.ResourceStatusInUse},
	)

	available, err := svc.GetAvailableResources(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "r1", available[0].ID)
}

func TestListResources(t *testing.T) {
	svc, _ := newResourceFixture(
		models.Resource{ID: "r1", Status: models.ResourceStatusAvailable},
		models.Resource{ID: "r2", Status: models.ResourceStatusAvailable},
		models.Resource{ID: "r3", Status: models.ResourceStatusAvailable},
	)

	page, err := svc.ListResources(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}
