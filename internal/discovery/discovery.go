// Package discovery pages through the product catalogue and collects the
// products that are live on the source channel but missing from at least one
// destination.
package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// PageFetcher returns the product page following the given cursor.
// A nil cursor requests the first page.
type PageFetcher interface {
	FetchProductPage(ctx context.Context, after *string) (*domain.ProductPage, error)
}

// Hooks receives discovery progress. Nil fields are no-ops.
type Hooks struct {
	OnPage       func(edges int)
	OnDiscovered func(n int)
}

type Finder struct {
	fetcher PageFetcher
	logger  *zap.Logger
	hooks   Hooks
}

func NewFinder(fetcher PageFetcher, logger *zap.Logger, hooks Hooks) *Finder {
	if hooks.OnPage == nil {
		hooks.OnPage = func(int) {}
	}
	if hooks.OnDiscovered == nil {
		hooks.OnDiscovered = func(int) {}
	}
	return &Finder{fetcher: fetcher, logger: logger, hooks: hooks}
}

// Find returns the IDs of every product that needs publishing, in catalogue
// order. Any fetch error aborts the whole walk and no partial result is
// returned.
func (f *Finder) Find(ctx context.Context) ([]string, error) {
	var (
		ids         []string
		cursor      *string
		hasNextPage = true
		pageNum     int
	)

	for hasNextPage {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := f.fetcher.FetchProductPage(ctx, cursor)
		if err != nil {
			f.logger.Error("error fetching products", zap.Int("page", pageNum+1), zap.Error(err))
			return nil, fmt.Errorf("fetch products page %d: %w", pageNum+1, err)
		}
		pageNum++

		eligible := 0
		for _, edge := range page.Edges {
			if edge.Product.NeedsPublishing() {
				ids = append(ids, edge.Product.ID)
				eligible++
			}
		}

		f.hooks.OnPage(len(page.Edges))
		f.hooks.OnDiscovered(eligible)
		f.logger.Debug("fetched products page",
			zap.Int("page", pageNum),
			zap.Int("products", len(page.Edges)),
			zap.Int("eligible", eligible),
			zap.Bool("has_next_page", page.HasNextPage),
		)

		hasNextPage = page.HasNextPage
		cursor = page.EndCursor()
	}

	return ids, nil
}
