package service

import "sort"

type failedItem struct {
	position int
	id       string
}

// sortFailed returns failed product IDs in work-list order.
func sortFailed(items []failedItem) []string {
	sort.Slice(items, func(i, j int) bool { return items[i].position < items[j].position })
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}
