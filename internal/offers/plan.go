package offers

import (
	"slices"
	"strings"
)

// PlanRefetch returns the de-duplicated, sorted codes of incomplete offers that need to be
// fetched individually. Codes are compared case-insensitively and the first spelling seen is kept.
// Offers without a code are skipped since the upstream keys single-offer requests by code.
func PlanRefetch(batch []Offer) []string {
	seen := make(map[string]struct{}, len(batch))
	codes := make([]string, 0)

	for _, o := range batch {
		code := strings.TrimSpace(o.Code)
		if code == "" || !o.IsIncomplete() {
			continue
		}
		id := strings.ToUpper(code)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		codes = append(codes, code)
	}

	slices.Sort(codes)
	return codes
}

// SameCode reports whether two offer codes refer to the same offer.
func SameCode(a string, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
