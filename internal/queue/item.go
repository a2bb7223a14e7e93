package queue

// Item is one product awaiting publication. Position is its 1-based index
// in the work list and drives the progress count.
type Item struct {
	ProductID string
	Position  int
}
