package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
)

type productsData struct {
	Products *struct {
		Edges []struct {
			Cursor string                     `json:"cursor"`
			Node   map[string]json.RawMessage `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"products"`
}

// ProductLister fetches pages of products annotated with their publication
// status on one source and a fixed list of destinations. The query text is
// rendered once at construction.
type ProductLister struct {
	client    *Client
	query     string
	sourceGID string
	fields    []FieldSpec
}

func NewProductLister(c *Client, target domain.SyncTarget) *ProductLister {
	fields := DestinationFields(target.Destinations)
	return &ProductLister{
		client:    c,
		query:     RenderProductsQuery(fields),
		sourceGID: domain.FormatPublicationID(target.Source),
		fields:    fields,
	}
}

// Query returns the rendered query document.
func (l *ProductLister) Query() string { return l.query }

// FetchProductPage requests the page that starts after the given cursor
// (nil for the first page).
func (l *ProductLister) FetchProductPage(ctx context.Context, after *string) (*domain.ProductPage, error) {
	var data productsData
	err := l.client.Do(ctx, ratelimiter.OperationQuery, Request{
		Query: l.query,
		Variables: map[string]any{
			"sourcePublicationId": l.sourceGID,
			"after":               after,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, fmt.Errorf("%w: response has no products connection", domain.ErrTransport)
	}

	page := &domain.ProductPage{
		Edges:       make([]domain.ProductEdge, 0, len(data.Products.Edges)),
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}
	for _, e := range data.Products.Edges {
		status, err := l.decodeNode(e.Node)
		if err != nil {
			return nil, err
		}
		page.Edges = append(page.Edges, domain.ProductEdge{Cursor: e.Cursor, Product: status})
	}
	return page, nil
}

func (l *ProductLister) decodeNode(node map[string]json.RawMessage) (domain.ProductStatus, error) {
	var status domain.ProductStatus
	if raw, ok := node["id"]; ok {
		if err := json.Unmarshal(raw, &status.ID); err != nil {
			return status, fmt.Errorf("%w: decode product id: %w", domain.ErrTransport, err)
		}
	}

	onSource, err := decodeFlag(node, sourceAlias)
	if err != nil {
		return status, err
	}
	status.OnSource = onSource

	status.OnDestinations = make([]bool, len(l.fields))
	for i, f := range l.fields {
		published, err := decodeFlag(node, f.Alias)
		if err != nil {
			return status, err
		}
		status.OnDestinations[i] = published
	}
	return status, nil
}

// decodeFlag reads an aliased boolean. Missing and null fields are false.
func decodeFlag(node map[string]json.RawMessage, alias string) (bool, error) {
	raw, ok := node[alias]
	if !ok {
		return false, nil
	}
	var v *bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", domain.ErrTransport, alias, err)
	}
	return v != nil && *v, nil
}
