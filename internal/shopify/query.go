package shopify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// PageSize is the number of products requested per page.
const PageSize = 250

const sourceAlias = "publishedOnSource"

// FieldSpec names one per-destination publication-status field of a product node.
type FieldSpec struct {
	Alias         string
	PublicationID string
}

// DestinationAlias is the result field name for the destination at index i.
func DestinationAlias(i int) string {
	return "publishedOnDestination" + strconv.Itoa(i)
}

// DestinationFields builds one field spec per destination, in order.
// Destination IDs are converted to global-ID form.
func DestinationFields(destinations []string) []FieldSpec {
	fields := make([]FieldSpec, len(destinations))
	for i, d := range destinations {
		fields[i] = FieldSpec{
			Alias:         DestinationAlias(i),
			PublicationID: domain.FormatPublicationID(d),
		}
	}
	return fields
}

// RenderProductsQuery renders the paginated products query. The source
// publication is bound through $sourcePublicationId; each destination is a
// distinct aliased field, so its ID is embedded as a string literal.
func RenderProductsQuery(fields []FieldSpec) string {
	var b strings.Builder
	b.WriteString("query GetProducts($sourcePublicationId: ID!, $after: String) {\n")
	fmt.Fprintf(&b, "  products(first: %d, after: $after) {\n", PageSize)
	b.WriteString("    edges {\n")
	b.WriteString("      cursor\n")
	b.WriteString("      node {\n")
	b.WriteString("        id\n")
	fmt.Fprintf(&b, "        %s: publishedOnPublication(publicationId: $sourcePublicationId)\n", sourceAlias)
	for _, f := range fields {
		fmt.Fprintf(&b, "        %s: publishedOnPublication(publicationId: %s)\n", f.Alias, strconv.Quote(f.PublicationID))
	}
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("    pageInfo {\n")
	b.WriteString("      hasNextPage\n")
	b.WriteString("    }\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	return b.String()
}
