// internal/messaging/bus_test.go
package messaging

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewLocalBus()
	var first, second []CatalogChange
	require.NoError(t, bus.Subscribe(func(c CatalogChange) { first = append(first, c) }))
	require.NoError(t, bus.Subscribe(func(c CatalogChange) { second = append(second, c) }))

	change := NewChange(ActionUpdated, "p-1")
	require.NoError(t, bus.PublishCatalogChange(context.Background(), change))

	assert.Equal(t, []CatalogChange{change}, first)
	assert.Equal(t, []CatalogChange{change}, second)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.PublishCatalogChange(context.Background(), NewChange(ActionReloaded, "")))
	assert.Len(t, first, 1)
}

func TestCatalogChangeWireFormat(t *testing.T) {
	change := NewChange(ActionDeleted, "p-9")
	body, err := sonic.Marshal(change)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"action":"deleted"`)
	assert.Contains(t, string(body), `"product_id":"p-9"`)

	reload, err := sonic.Marshal(NewChange(ActionReloaded, ""))
	require.NoError(t, err)
	assert.NotContains(t, string(reload), "product_id")
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "storefront_catalog_changed", getName("storefront", CatalogChanged))
}
