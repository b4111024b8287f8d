package offers

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// portWordPattern matches whole words of three or more letters; shorter tokens such as state
// abbreviations keep their casing.
var portWordPattern = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)

// Normalize returns a copy of the offer with trimmed strings and canonical casing: the code
// is upper case, names and descriptions are title case.
func Normalize(o Offer) Offer {
	// Casers keep state and must not be shared between goroutines.
	title := cases.Title(language.Und)

	out := o.clone()
	out.Code = strings.ToUpper(strings.TrimSpace(o.Code))
	out.Name = title.String(strings.TrimSpace(o.Name))
	out.StartDate = strings.TrimSpace(o.StartDate)
	out.ReserveByDate = strings.TrimSpace(o.ReserveByDate)

	for i := range out.Sailings {
		out.Sailings[i] = normalizeSailing(out.Sailings[i], title)
	}
	for i := range out.ExcludedSailings {
		out.ExcludedSailings[i] = normalizeSailing(out.ExcludedSailings[i], title)
	}

	return out
}

// NormalizeAll applies Normalize to every offer.
func NormalizeAll(batch []Offer) []Offer {
	out := make([]Offer, len(batch))
	for i, o := range batch {
		out[i] = Normalize(o)
	}
	return out
}

func normalizeSailing(s Sailing, title cases.Caser) Sailing {
	s.ShipCode = strings.ToUpper(strings.TrimSpace(s.ShipCode))
	s.SailDate = strings.TrimSpace(s.SailDate)
	s.ShipName = title.String(strings.TrimSpace(s.ShipName))
	s.ItineraryDescription = title.String(strings.TrimSpace(s.ItineraryDescription))
	s.DeparturePort = portTitleCase(strings.TrimSpace(s.DeparturePort))

	if s.ItineraryCode != nil {
		code := strings.TrimSpace(*s.ItineraryCode)
		s.ItineraryCode = &code
	}

	return s
}

func portTitleCase(name string) string {
	return portWordPattern.ReplaceAllStringFunc(name, func(word string) string {
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	})
}
