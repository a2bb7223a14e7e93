package shopify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
	"github.com/usamadar/shopify-publish-channel/internal/shopify"
)

type recordedRequest struct {
	Token string
	Body  shopify.Request
}

// fakeAdmin replays scripted JSON bodies, one per call, and records requests.
type fakeAdmin struct {
	mu        sync.Mutex
	responses []string
	status    int
	requests  []recordedRequest
}

func (f *fakeAdmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body shopify.Request
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.requests = append(f.requests, recordedRequest{Token: r.Header.Get(shopify.AccessTokenHeader), Body: body})

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"errors":"Not Found"}`))
		return
	}
	idx := len(f.requests) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(f.responses[idx]))
}

func newClient(t *testing.T, f *fakeAdmin) *shopify.Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return shopify.NewClient(shopify.ClientConfig{
		Endpoint:    srv.URL,
		AccessToken: "shpat_test",
		Timeout:     5 * time.Second,
	})
}

func TestRenderProductsQuery(t *testing.T) {
	fields := shopify.DestinationFields([]string{"11", "22", "11"})
	require.Len(t, fields, 3)
	assert.Equal(t, "publishedOnDestination0", fields[0].Alias)
	assert.Equal(t, "publishedOnDestination2", fields[2].Alias)
	assert.Equal(t, "gid://shopify/Publication/11", fields[2].PublicationID)

	q := shopify.RenderProductsQuery(fields)
	assert.Contains(t, q, "products(first: 250, after: $after)")
	assert.Contains(t, q, "publishedOnSource: publishedOnPublication(publicationId: $sourcePublicationId)")
	assert.Contains(t, q, `publishedOnDestination1: publishedOnPublication(publicationId: "gid://shopify/Publication/22")`)
	assert.Contains(t, q, "hasNextPage")
}

func TestProductLister_DecodesAliasedFlags(t *testing.T) {
	f := &fakeAdmin{responses: []string{`{"data":{"products":{
		"edges":[
			{"cursor":"c1","node":{"id":"gid://shopify/Product/1","publishedOnSource":true,"publishedOnDestination0":false,"publishedOnDestination1":true}},
			{"cursor":"c2","node":{"id":"gid://shopify/Product/2","publishedOnSource":null,"publishedOnDestination0":true}}
		],
		"pageInfo":{"hasNextPage":false}}}}`}}
	c := newClient(t, f)

	lister := shopify.NewProductLister(c, domain.SyncTarget{Source: "100", Destinations: []string{"200", "300"}})
	page, err := lister.FetchProductPage(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, page.Edges, 2)
	assert.False(t, page.HasNextPage)
	assert.Equal(t, domain.ProductStatus{
		ID:             "gid://shopify/Product/1",
		OnSource:       true,
		OnDestinations: []bool{false, true},
	}, page.Edges[0].Product)
	// Null source and a missing destination field both read as false.
	assert.Equal(t, []bool{true, false}, page.Edges[1].Product.OnDestinations)
	assert.False(t, page.Edges[1].Product.OnSource)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "shpat_test", req.Token)
	assert.Equal(t, "gid://shopify/Publication/100", req.Body.Variables["sourcePublicationId"])
	assert.Nil(t, req.Body.Variables["after"])
	assert.Contains(t, req.Body.Query, `"gid://shopify/Publication/300"`)
}

func TestProductLister_SendsCursor(t *testing.T) {
	f := &fakeAdmin{responses: []string{`{"data":{"products":{"edges":[],"pageInfo":{"hasNextPage":false}}}}`}}
	c := newClient(t, f)

	lister := shopify.NewProductLister(c, domain.SyncTarget{Source: "1", Destinations: []string{"2"}})
	cursor := "eyJsYXN0X2lkIjo5OX0="
	page, err := lister.FetchProductPage(context.Background(), &cursor)
	require.NoError(t, err)
	assert.Empty(t, page.Edges)
	assert.Equal(t, cursor, f.requests[0].Body.Variables["after"])
}

func TestClient_GraphQLErrors(t *testing.T) {
	f := &fakeAdmin{responses: []string{`{"errors":[{"message":"Throttled"},{"message":"Field 'x' doesn't exist"}]}`}}
	c := newClient(t, f)

	lister := shopify.NewProductLister(c, domain.SyncTarget{Source: "1", Destinations: []string{"2"}})
	_, err := lister.FetchProductPage(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGraphQL))

	var gqlErr *shopify.GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Len(t, gqlErr.Errors, 2)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestClient_HTTPError(t *testing.T) {
	f := &fakeAdmin{status: http.StatusUnauthorized}
	c := newClient(t, f)

	err := c.Do(context.Background(), ratelimiter.OperationQuery, shopify.Request{Query: "{ shop { name } }"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))

	var httpErr *shopify.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var seen error
	c := shopify.NewClient(shopify.ClientConfig{
		Endpoint: url,
		Timeout:  time.Second,
		OnRequest: func(op ratelimiter.Operation, err error) {
			seen = err
		},
	})
	err := c.Do(context.Background(), ratelimiter.OperationMutation, shopify.Request{Query: "mutation { x }"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.Equal(t, err, seen)
}

func TestPublisher_Publish(t *testing.T) {
	f := &fakeAdmin{responses: []string{`{"data":{"publishablePublish":{"userErrors":[]}}}`}}
	c := newClient(t, f)

	p := shopify.NewPublisher(c)
	err := p.Publish(context.Background(), "gid://shopify/Product/9", []string{"5", "gid://shopify/Publication/6"})
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	vars := f.requests[0].Body.Variables
	assert.Equal(t, "gid://shopify/Product/9", vars["id"])
	assert.Equal(t, []any{
		map[string]any{"publicationId": "gid://shopify/Publication/5"},
		map[string]any{"publicationId": "gid://shopify/Publication/6"},
	}, vars["input"])
	assert.True(t, strings.HasPrefix(f.requests[0].Body.Query, "mutation publishablePublish"))
}

func TestPublisher_UserErrors(t *testing.T) {
	f := &fakeAdmin{responses: []string{`{"data":{"publishablePublish":{"userErrors":[{"field":["input","0","publicationId"],"message":"Publication does not exist"}]}}}`}}
	c := newClient(t, f)

	err := shopify.NewPublisher(c).Publish(context.Background(), "gid://shopify/Product/9", []string{"5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUserErrors))

	var ueErr *shopify.UserErrorsError
	require.True(t, errors.As(err, &ueErr))
	assert.Equal(t, "gid://shopify/Product/9", ueErr.ProductID)
	assert.Contains(t, err.Error(), "input.0.publicationId: Publication does not exist")
}

func TestPublisher_NullPayloadFails(t *testing.T) {
	for _, body := range []string{
		`{"data":{"publishablePublish":null}}`,
		`{"data":{}}`,
	} {
		f := &fakeAdmin{responses: []string{body}}
		c := newClient(t, f)

		err := shopify.NewPublisher(c).Publish(context.Background(), "gid://shopify/Product/9", []string{"5"})
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, domain.ErrTransport), body)
		assert.False(t, errors.Is(err, domain.ErrUserErrors), body)
	}
}
