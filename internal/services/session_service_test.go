// internal/services/session_service_test.go
package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/solar-catalog/internal/catalog"
)

func TestSessionLifecycle(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Minute, 0)

	created, err := sessions.Create(url.Values{"categories": {"onduleurs"}})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 2, created.Result.Count)
	assert.Equal(t, []catalog.Group{catalog.GroupGeneral}, created.OpenGroups)

	view, err := sessions.Dispatch(created.ID, []catalog.Action{catalog.SetFlag(catalog.FlagWiFi, catalog.Yes), catalog.SetMaxPrice(1500)})
	require.NoError(t, err)
	assert.Equal(t, []string{"SUN2000-6KTL"}, names(view.Result.Products))

	view, err = sessions.SetSearch(created.ID, "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Result.Count)

	view, err = sessions.Clear(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Result.Count)
	assert.False(t, view.HasActiveFilters)

	view, err = sessions.SetSort(created.ID, catalog.SortPriceDesc)
	require.NoError(t, err)
	assert.Equal(t, "Alfea Excellia 11", view.Result.Products[0].Name)

	view, err = sessions.ToggleGroup(created.ID, catalog.GroupBatteries)
	require.NoError(t, err)
	assert.Contains(t, view.OpenGroups, catalog.GroupBatteries)

	_, err = sessions.ToggleGroup(created.ID, "garden")
	assert.ErrorIs(t, err, ErrUnknownGroup)

	require.NoError(t, sessions.Delete(created.ID))
	_, err = sessions.Get(created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, sessions.Delete(created.ID), ErrSessionNotFound)
}

func TestSessionDispatchRejectsUnknownFacet(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Minute, 0)
	created, err := sessions.Create(nil)
	require.NoError(t, err)

	_, err = sessions.Dispatch(created.ID, []catalog.Action{catalog.ToggleValue("colour", "blue")})
	assert.ErrorIs(t, err, catalog.ErrUnknownFacet)
}

func TestSessionExpiry(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Minute, 0)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	first, err := sessions.Create(nil)
	require.NoError(t, err)
	second, err := sessions.Create(nil)
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = sessions.Get(first.ID)
	require.NoError(t, err, "access extends the lifetime")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, sessions.evictExpired())
	assert.Equal(t, 1, sessions.Count())

	_, err = sessions.Get(second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = sessions.Get(first.ID)
	assert.NoError(t, err)
}

func TestSessionsRebaseOnReload(t *testing.T) {
	svc, source := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Minute, 0)
	svc.OnReload(sessions.Rebase)

	created, err := sessions.Create(url.Values{"brands": {"Huawei"}})
	require.NoError(t, err)
	assert.Equal(t, 2, created.Result.Count)

	source.set(append(storefront(), catalog.Product{ID: "bat-2", Name: "LUNA2000-10", Brand: "Huawei", Category: "batteries"}))
	require.NoError(t, svc.Reload(context.Background()))

	view, err := sessions.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Result.Count)
	assert.Equal(t, []string{"Huawei"}, view.State.Selected(catalog.FacetBrand))
}

func TestSessionCleanupStopsWithContext(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Millisecond, 0)
	_, err := sessions.Create(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return sessions.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSessionLimitEvictsLeastRecentlyUsed(t *testing.T) {
	svc, _ := loadedCatalog(storefront())
	sessions := NewSessionService(svc, time.Minute, 2)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	first, err := sessions.Create(nil)
	require.NoError(t, err)
	now = now.Add(time.Second)
	second, err := sessions.Create(nil)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = sessions.Get(first.ID)
	require.NoError(t, err)

	now = now.Add(time.Second)
	third, err := sessions.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sessions.Count())

	_, err = sessions.Get(second.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "the idle session makes room")
	_, err = sessions.Get(first.ID)
	assert.NoError(t, err)
	_, err = sessions.Get(third.ID)
	assert.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := sessions.Create(nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, sessions.Count())
}
