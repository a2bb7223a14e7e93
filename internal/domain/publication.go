package domain

import "strings"

// PublicationGIDPrefix is the global-ID namespace for sales channel publications.
const PublicationGIDPrefix = "gid://shopify/Publication/"

// FormatPublicationID rewrites a raw publication ID into its global-ID form.
// IDs already carrying the prefix are returned unchanged.
func FormatPublicationID(id string) string {
	if strings.HasPrefix(id, PublicationGIDPrefix) {
		return id
	}
	return PublicationGIDPrefix + id
}

// FormatPublicationIDs applies FormatPublicationID to every element, keeping order.
func FormatPublicationIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = FormatPublicationID(id)
	}
	return out
}

// SyncTarget is the source channel and the ordered destination channels of a run.
type SyncTarget struct {
	Source       string
	Destinations []string
}

// ParseSyncTarget splits positional arguments into a source and its
// destinations. Destination uniqueness is not enforced.
func ParseSyncTarget(args []string) (SyncTarget, error) {
	if len(args) < 2 {
		return SyncTarget{}, ErrInsufficientArgs
	}
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			return SyncTarget{}, ErrEmptyPublicationID
		}
	}
	dests := make([]string, len(args)-1)
	copy(dests, args[1:])
	return SyncTarget{Source: args[0], Destinations: dests}, nil
}
