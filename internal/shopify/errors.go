package shopify

import (
	"fmt"
	"strings"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// GraphQLErrorItem is one entry of the top-level "errors" array.
type GraphQLErrorItem struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError is returned when the response body carries protocol-level errors.
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, item := range e.Errors {
		msgs[i] = item.Message
	}
	return fmt.Sprintf("%s: %s", domain.ErrGraphQL, strings.Join(msgs, "; "))
}

func (e *GraphQLError) Unwrap() error { return domain.ErrGraphQL }

// HTTPError is returned for a non-2xx response from the Admin API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected admin api status: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected admin api status: %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error { return domain.ErrTransport }

// UserErrorsError is returned when a mutation succeeds at the protocol level
// but reports business-level userErrors in its payload.
type UserErrorsError struct {
	ProductID  string
	UserErrors []domain.UserError
}

func (e *UserErrorsError) Error() string {
	msgs := make([]string, len(e.UserErrors))
	for i, ue := range e.UserErrors {
		if len(ue.Field) > 0 {
			msgs[i] = strings.Join(ue.Field, ".") + ": " + ue.Message
		} else {
			msgs[i] = ue.Message
		}
	}
	return fmt.Sprintf("%s for %s: %s", domain.ErrUserErrors, e.ProductID, strings.Join(msgs, "; "))
}

func (e *UserErrorsError) Unwrap() error { return domain.ErrUserErrors }
