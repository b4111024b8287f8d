package offers

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultCodeMarker is the offer code fragment that activates the night limit.
	DefaultCodeMarker = "TIER"

	// DefaultMaxNights is the longest sailing allowed on a marked offer.
	DefaultMaxNights = 7
)

// nightCountPattern matches a leading night count such as "7 NIGHT", "10 nts" or "\t4 N".
var nightCountPattern = regexp.MustCompile(`(?i)^\t*(\d+)\s+N(?:IGHT|T)?S?\b`)

// NightLimit configures ApplyNightLimit.
type NightLimit struct {
	// CodeMarker is matched case-insensitively against the offer code.
	CodeMarker string

	// MaxNights is the largest night count kept.
	MaxNights int
}

// DefaultNightLimit returns the limit applied to "TIER" offers: 7 nights.
func DefaultNightLimit() NightLimit {
	return NightLimit{
		CodeMarker: DefaultCodeMarker,
		MaxNights:  DefaultMaxNights,
	}
}

// appliesTo reports whether the limit is active for the given offer code.
func (l NightLimit) appliesTo(code string) bool {
	marker := strings.ToUpper(strings.TrimSpace(l.CodeMarker))
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(code), marker)
}

// ApplyExclusions returns a copy of the offer whose sailings exclude every entry that shares an
// identity with one of the offer's excluded sailings. Sailings without an identity are kept.
func ApplyExclusions(o Offer) Offer {
	out := o.clone()
	if len(o.ExcludedSailings) == 0 || len(o.Sailings) == 0 {
		return out
	}

	excluded := keySet(o.ExcludedSailings)
	if len(excluded) == 0 {
		return out
	}

	kept := make([]Sailing, 0, len(o.Sailings))
	for _, s := range o.Sailings {
		if k, ok := Key(s); ok {
			if _, found := excluded[k]; found {
				continue
			}
		}
		kept = append(kept, s)
	}
	out.Sailings = kept

	return out
}

// ApplyNightLimit returns a copy of the offer without sailings longer than limit.MaxNights.
// It only acts on offers whose code contains limit.CodeMarker. Sailings whose description does
// not start with a recognizable night count are kept.
func ApplyNightLimit(o Offer, limit NightLimit) Offer {
	out := o.clone()
	if len(o.Sailings) == 0 || !limit.appliesTo(o.Code) {
		return out
	}

	kept := make([]Sailing, 0, len(o.Sailings))
	for _, s := range o.Sailings {
		nights, ok := ParseNights(s.ItineraryDescription)
		if ok && nights > limit.MaxNights {
			continue
		}
		kept = append(kept, s)
	}
	out.Sailings = kept

	return out
}

// ApplyRules runs ApplyExclusions then ApplyNightLimit.
func ApplyRules(o Offer, limit NightLimit) Offer {
	return ApplyNightLimit(ApplyExclusions(o), limit)
}

// ParseNights extracts the leading night count of an itinerary description.
func ParseNights(description string) (int, bool) {
	text := strings.TrimSpace(description)
	if text == "" {
		return 0, false
	}

	m := nightCountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	nights, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return nights, true
}
