package domain

// ProductStatus is a product's publication state on the source channel and on
// each requested destination. OnDestinations is ordered like the destination
// list of the run.
type ProductStatus struct {
	ID             string
	OnSource       bool
	OnDestinations []bool
}

// NeedsPublishing reports whether the product is live on the source but
// missing from at least one destination.
func (p ProductStatus) NeedsPublishing() bool {
	if !p.OnSource {
		return false
	}
	for _, published := range p.OnDestinations {
		if !published {
			return true
		}
	}
	return false
}

// ProductEdge is one product plus its pagination cursor.
type ProductEdge struct {
	Cursor  string
	Product ProductStatus
}

// ProductPage is a single page of the products connection.
type ProductPage struct {
	Edges       []ProductEdge
	HasNextPage bool
}

// EndCursor returns the cursor of the last edge, or nil for an empty page.
func (p *ProductPage) EndCursor() *string {
	if len(p.Edges) == 0 {
		return nil
	}
	c := p.Edges[len(p.Edges)-1].Cursor
	return &c
}
