package shopify

import (
	"context"
	"fmt"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
)

const publishMutation = `mutation publishablePublish($id: ID!, $input: [PublicationInput!]!) {
  publishablePublish(id: $id, input: $input) {
    publishable {
      availablePublicationsCount {
        count
      }
      resourcePublicationsCount {
        count
      }
    }
    shop {
      publicationCount
    }
    userErrors {
      field
      message
    }
  }
}
`

// PublicationInput is one element of the mutation's input list.
type PublicationInput struct {
	PublicationID string `json:"publicationId"`
}

type publishData struct {
	PublishablePublish *struct {
		UserErrors []domain.UserError `json:"userErrors"`
	} `json:"publishablePublish"`
}

// Publisher issues publishablePublish mutations.
type Publisher struct {
	client *Client
}

func NewPublisher(c *Client) *Publisher {
	return &Publisher{client: c}
}

// Publish makes productID visible on every destination publication.
// productID is used as given; destinations are converted to global-ID form.
// Non-empty userErrors are returned as *UserErrorsError.
func (p *Publisher) Publish(ctx context.Context, productID string, destinations []string) error {
	input := make([]PublicationInput, len(destinations))
	for i, d := range destinations {
		input[i] = PublicationInput{PublicationID: domain.FormatPublicationID(d)}
	}

	var data publishData
	err := p.client.Do(ctx, ratelimiter.OperationMutation, Request{
		Query: publishMutation,
		Variables: map[string]any{
			"id":    productID,
			"input": input,
		},
	}, &data)
	if err != nil {
		return err
	}

	if data.PublishablePublish == nil {
		return fmt.Errorf("%w: empty publishablePublish payload for %s", domain.ErrTransport, productID)
	}
	if len(data.PublishablePublish.UserErrors) > 0 {
		return &UserErrorsError{ProductID: productID, UserErrors: data.PublishablePublish.UserErrors}
	}
	return nil
}
