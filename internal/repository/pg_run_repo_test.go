package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/repository"
)

// Malformed IDs are rejected before any query, so no pool is needed.
func TestPgRunRepository_MalformedIDIsNotFound(t *testing.T) {
	repo := repository.NewPgRunRepository(nil)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "foo", ""} {
		if _, err := repo.GetRun(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetRun(%q): expected ErrNotFound, got %v", id, err)
		}
		if _, err := repo.ListOutcomes(ctx, id, false); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("ListOutcomes(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}
