package offers

import "strings"

// keySeparator joins ship code and sail date in a sailing key.
const keySeparator = "|"

// Key returns the composite identity of a sailing, UPPER(shipCode) + "|" + sailDate.
// The second return value is false when either part is missing; such sailings have no
// identity and never match another sailing.
func Key(s Sailing) (string, bool) {
	shipCode := strings.ToUpper(strings.TrimSpace(s.ShipCode))
	sailDate := strings.TrimSpace(s.SailDate)
	if shipCode == "" || sailDate == "" {
		return "", false
	}
	return shipCode + keySeparator + sailDate, true
}

// SameSailing reports whether a and b both have an identity and it is equal.
func SameSailing(a Sailing, b Sailing) bool {
	ka, ok := Key(a)
	if !ok {
		return false
	}
	kb, ok := Key(b)
	return ok && ka == kb
}

// keySet returns the set of identities present in sailings.
func keySet(sailings []Sailing) map[string]struct{} {
	set := make(map[string]struct{}, len(sailings))
	for _, s := range sailings {
		if k, ok := Key(s); ok {
			set[k] = struct{}{}
		}
	}
	return set
}
