// Package offers models casino offers and their eligible sailings, and provides the pure
// reconciliation rules applied to them: sailing identity, exclusion and night-limit filters,
// union merging, refetch planning, diffing and normalization.
//
// Every function in this package treats its inputs as immutable and returns freshly allocated
// slices and values.
package offers

// Offer is a promotional code bundled with the sailings it can be redeemed on.
type Offer struct {
	// Code is the upstream offer code, e.g. "25TIER06".
	Code string `json:"code"`

	// ExcludedSailings lists sailings the upstream explicitly marks as not eligible.
	ExcludedSailings []Sailing `json:"excludedSailings,omitempty"`

	// Name is the human readable offer name.
	Name string `json:"name,omitempty"`

	// ReserveByDate is the last date a sailing can be reserved under this offer.
	ReserveByDate string `json:"reserveByDate,omitempty"`

	// Sailings lists the sailings eligible under this offer.
	Sailings []Sailing `json:"sailings"`

	// StartDate is the first date the offer is valid.
	StartDate string `json:"startDate,omitempty"`
}

// Sailing is one concrete cruise departure eligible under an offer.
type Sailing struct {
	// DeparturePort is the name of the embarkation port.
	DeparturePort string `json:"departurePort,omitempty"`

	// ItineraryCode identifies the itinerary. Nil marks an upstream placeholder row.
	ItineraryCode *string `json:"itineraryCode"`

	// ItineraryDescription is the free text itinerary, usually starting with a night count.
	ItineraryDescription string `json:"itineraryDescription,omitempty"`

	// SailDate is the departure date in ISO format (YYYY-MM-DD).
	SailDate string `json:"sailDate"`

	// ShipCode is the short ship identifier, e.g. "OV".
	ShipCode string `json:"shipCode"`

	// ShipName is the full ship name.
	ShipName string `json:"shipName,omitempty"`
}

// IsIncomplete reports whether the upstream batch response left this offer without usable
// sailings: either none were returned, or the first one is a placeholder with no itinerary code.
func (o Offer) IsIncomplete() bool {
	return len(o.Sailings) == 0 || o.Sailings[0].ItineraryCode == nil
}

// clone returns a copy of the offer with its own sailing slices.
func (o Offer) clone() Offer {
	out := o
	out.Sailings = cloneSailings(o.Sailings)
	out.ExcludedSailings = cloneSailings(o.ExcludedSailings)
	return out
}

// cloneSailings copies a sailing slice, preserving nil.
func cloneSailings(in []Sailing) []Sailing {
	if in == nil {
		return nil
	}
	out := make([]Sailing, len(in))
	copy(out, in)
	return out
}
