package batch

import "github.com/cleared-dev/parcelas/internal/taxid"

// AllowList is a set of normalized 14-digit CNPJs. A nil AllowList means no filtering.
type AllowList map[string]struct{}

// NewAllowList normalizes ids and drops the ones without digits.
func NewAllowList(ids []string) AllowList {
	al := make(AllowList, len(ids))
	for _, raw := range ids {
		if id := taxid.Normalize(raw); id != "" {
			al[id] = struct{}{}
		}
	}
	return al
}

// Contains reports whether the normalized form of id is in the list.
func (a AllowList) Contains(id string) bool {
	_, ok := a[taxid.Normalize(id)]
	return ok
}
