// internal/repository/source.go
package repository

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/javajoker/solar-catalog/internal/catalog"
)

// ProductSource yields the complete, immutable product list of the catalog.
type ProductSource interface {
	LoadProducts(ctx context.Context) ([]catalog.Product, error)
}

// Feed is the serialized form of a product snapshot, shared by the S3
// feed and the Redis snapshot cache.
type Feed struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Products    []catalog.Product `json:"products"`
}

func EncodeFeed(products []catalog.Product, at time.Time) ([]byte, error) {
	return sonic.Marshal(Feed{GeneratedAt: at.UTC(), Products: products})
}

func DecodeFeed(data []byte) (*Feed, error) {
	var feed Feed
	if err := sonic.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	if feed.Products == nil {
		feed.Products = []catalog.Product{}
	}
	return &feed, nil
}
