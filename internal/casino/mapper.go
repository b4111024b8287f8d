package casino

import (
	"strings"

	"github.com/peteski22/offersync/internal/offers"
)

// ToDomainType converts a campaign offer to its canonical representation.
// A nil sailing list stays nil so callers can tell "absent" from "empty".
func (c *campaignOffer) ToDomainType() *offers.Offer {
	if c == nil {
		return nil
	}

	return &offers.Offer{
		Code:             strings.TrimSpace(c.OfferCode),
		ExcludedSailings: toDomainSailings(c.ExcludedSailings),
		Name:             c.Name,
		ReserveByDate:    c.ReserveByDate,
		Sailings:         toDomainSailings(c.Sailings),
		StartDate:        c.StartDate,
	}
}

// ToDomainType converts a wire sailing to a canonical sailing, resolving the ship code from
// shipCode, ship.shipCode or ship.code in that order.
func (s sailing) ToDomainType() offers.Sailing {
	out := offers.Sailing{
		ItineraryCode:        s.ItineraryCode,
		ItineraryDescription: s.ItineraryDescription,
		SailDate:             strings.TrimSpace(s.SailDate),
		ShipCode:             strings.ToUpper(strings.TrimSpace(s.shipCode())),
		ShipName:             s.ShipName,
	}

	if out.ItineraryDescription == "" && s.SailingType != nil {
		out.ItineraryDescription = s.SailingType.Name
	}
	if out.ShipName == "" && s.Ship != nil {
		out.ShipName = s.Ship.Name
	}
	if s.DeparturePort != nil {
		out.DeparturePort = s.DeparturePort.Name
	}

	return out
}

func (s sailing) shipCode() string {
	if code := strings.TrimSpace(s.ShipCode); code != "" {
		return code
	}
	if s.Ship == nil {
		return ""
	}
	if code := strings.TrimSpace(s.Ship.ShipCode); code != "" {
		return code
	}
	return s.Ship.Code
}

// toDomainOffers converts the response entries, skipping entries without a campaign offer.
func (r *offersResponse) toDomainOffers() []offers.Offer {
	out := make([]offers.Offer, 0, len(r.Offers))
	for _, entry := range r.Offers {
		if o := entry.CampaignOffer.ToDomainType(); o != nil {
			out = append(out, *o)
		}
	}
	return out
}

func toDomainSailings(in []sailing) []offers.Sailing {
	if in == nil {
		return nil
	}
	out := make([]offers.Sailing, len(in))
	for i, s := range in {
		out[i] = s.ToDomainType()
	}
	return out
}
