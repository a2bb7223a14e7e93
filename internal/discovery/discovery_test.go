package discovery_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/discovery"
	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/shopify"
)

// scriptedFetcher returns pages in order and records the cursors it was given.
type scriptedFetcher struct {
	pages   []*domain.ProductPage
	errAt   int
	err     error
	cursors []*string
}

func (s *scriptedFetcher) FetchProductPage(_ context.Context, after *string) (*domain.ProductPage, error) {
	s.cursors = append(s.cursors, after)
	i := len(s.cursors) - 1
	if s.err != nil && i == s.errAt {
		return nil, s.err
	}
	if i >= len(s.pages) {
		return nil, fmt.Errorf("unexpected request for page %d", i+1)
	}
	return s.pages[i], nil
}

func edge(cursor string, id string, onSource bool, dests ...bool) domain.ProductEdge {
	return domain.ProductEdge{
		Cursor:  cursor,
		Product: domain.ProductStatus{ID: id, OnSource: onSource, OnDestinations: dests},
	}
}

func TestFinder_FiltersAllCombinations(t *testing.T) {
	f := &scriptedFetcher{pages: []*domain.ProductPage{{
		Edges: []domain.ProductEdge{
			edge("c1", "p-src-tt", true, true, true),
			edge("c2", "p-src-ft", true, false, true),
			edge("c3", "p-src-tf", true, true, false),
			edge("c4", "p-src-ff", true, false, false),
			edge("c5", "p-nosrc-tt", false, true, true),
			edge("c6", "p-nosrc-ft", false, false, true),
			edge("c7", "p-nosrc-tf", false, true, false),
			edge("c8", "p-nosrc-ff", false, false, false),
		},
	}}}

	ids, err := discovery.NewFinder(f, zap.NewNop(), discovery.Hooks{}).Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p-src-ft", "p-src-tf", "p-src-ff"}, ids)
}

func TestFinder_ConsumesEveryPage(t *testing.T) {
	f := &scriptedFetcher{pages: []*domain.ProductPage{
		{Edges: []domain.ProductEdge{edge("a", "p1", true, false), edge("b", "p2", true, true)}, HasNextPage: true},
		{Edges: []domain.ProductEdge{edge("c", "p3", true, false)}, HasNextPage: true},
		{Edges: []domain.ProductEdge{edge("d", "p4", true, false)}, HasNextPage: false},
	}}

	var pages, discovered int
	finder := discovery.NewFinder(f, zap.NewNop(), discovery.Hooks{
		OnPage:       func(int) { pages++ },
		OnDiscovered: func(n int) { discovered += n },
	})
	ids, err := finder.Find(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p3", "p4"}, ids)
	require.Len(t, f.cursors, 3, "must stop exactly when hasNextPage is false")
	assert.Nil(t, f.cursors[0])
	assert.Equal(t, "b", *f.cursors[1])
	assert.Equal(t, "c", *f.cursors[2])
	assert.Equal(t, 3, pages)
	assert.Equal(t, 3, discovered)
}

func TestFinder_EmptyPageResetsCursor(t *testing.T) {
	f := &scriptedFetcher{pages: []*domain.ProductPage{
		{Edges: []domain.ProductEdge{edge("a", "p1", true, false)}, HasNextPage: true},
		{HasNextPage: true},
		{HasNextPage: false},
	}}

	ids, err := discovery.NewFinder(f, zap.NewNop(), discovery.Hooks{}).Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)
	require.Len(t, f.cursors, 3)
	assert.Equal(t, "a", *f.cursors[1])
	assert.Nil(t, f.cursors[2])
}

func TestFinder_ErrorAbortsWithoutPartialResults(t *testing.T) {
	f := &scriptedFetcher{
		pages: []*domain.ProductPage{
			{Edges: []domain.ProductEdge{edge("a", "p1", true, false)}, HasNextPage: true},
		},
		errAt: 1,
		err:   &shopify.GraphQLError{Errors: []shopify.GraphQLErrorItem{{Message: "Throttled"}}},
	}

	ids, err := discovery.NewFinder(f, zap.NewNop(), discovery.Hooks{}).Find(context.Background())
	require.Error(t, err)
	assert.Nil(t, ids)
	assert.True(t, errors.Is(err, domain.ErrGraphQL))
}

func TestFinder_CancelledContext(t *testing.T) {
	f := &scriptedFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := discovery.NewFinder(f, zap.NewNop(), discovery.Hooks{}).Find(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.cursors)
}

// TestFinder_AgainstAdminAPI runs discovery through the real GraphQL client
// against a paginating fake endpoint.
func TestFinder_AgainstAdminAPI(t *testing.T) {
	bodies := []string{
		`{"data":{"products":{"edges":[
			{"cursor":"c1","node":{"id":"gid://shopify/Product/1","publishedOnSource":true,"publishedOnDestination0":true,"publishedOnDestination1":false}},
			{"cursor":"c2","node":{"id":"gid://shopify/Product/2","publishedOnSource":false,"publishedOnDestination0":false,"publishedOnDestination1":false}}
		],"pageInfo":{"hasNextPage":true}}}}`,
		`{"data":{"products":{"edges":[
			{"cursor":"c3","node":{"id":"gid://shopify/Product/3","publishedOnSource":true,"publishedOnDestination0":false,"publishedOnDestination1":true}},
			{"cursor":"c4","node":{"id":"gid://shopify/Product/4","publishedOnSource":true,"publishedOnDestination0":true,"publishedOnDestination1":true}}
		],"pageInfo":{"hasNextPage":false}}}}`,
	}

	var (
		mu    sync.Mutex
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		i := calls
		calls++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bodies[i]))
	}))
	defer srv.Close()

	client := shopify.NewClient(shopify.ClientConfig{Endpoint: srv.URL, AccessToken: "shpat", Timeout: 5 * time.Second})
	lister := shopify.NewProductLister(client, domain.SyncTarget{Source: "1", Destinations: []string{"2", "3"}})

	ids, err := discovery.NewFinder(lister, zap.NewNop(), discovery.Hooks{}).Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gid://shopify/Product/1", "gid://shopify/Product/3"}, ids)
	assert.Equal(t, 2, calls)
}
