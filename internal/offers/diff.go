package offers

// Diff returns the sailings present only in before and only in after, compared by identity.
// Placeholder rows and sailings without an identity are ignored on both sides.
func Diff(before []Sailing, after []Sailing) ([]Sailing, []Sailing) {
	beforeKeys := keySet(before)
	afterKeys := keySet(after)

	return missingFrom(before, afterKeys), missingFrom(after, beforeKeys)
}

// IsPlaceholder reports whether a sailing carries no usable data at all.
func IsPlaceholder(s Sailing) bool {
	return s.ItineraryCode == nil && s.ShipCode == "" && s.SailDate == ""
}

// missingFrom returns the keyed sailings of list whose key is absent from other.
// Each key is reported once.
func missingFrom(list []Sailing, other map[string]struct{}) []Sailing {
	var out []Sailing
	reported := make(map[string]struct{})

	for _, s := range list {
		if IsPlaceholder(s) {
			continue
		}
		k, ok := Key(s)
		if !ok {
			continue
		}
		if _, found := other[k]; found {
			continue
		}
		if _, dup := reported[k]; dup {
			continue
		}
		reported[k] = struct{}{}
		out = append(out, s)
	}

	return out
}
