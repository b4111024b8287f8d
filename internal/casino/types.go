// Package casino provides a client for the cruise line casino-offers API.
package casino

const (
	// BrandCelebrity is the Celebrity Cruises brand code.
	BrandCelebrity Brand = "C"

	// BrandRoyal is the Royal Caribbean brand code.
	BrandRoyal Brand = "R"
)

// Brand selects which cruise line the offers are requested for.
type Brand string

// OffersRequest identifies whose offers to fetch and, optionally, a single offer.
type OffersRequest struct {
	// AccountID is sent in the account-id header.
	AccountID string

	// LoyaltyID is the casino loyalty programme identifier.
	LoyaltyID string

	// OfferCode restricts the response to one offer. Empty requests all offers.
	OfferCode string

	// Token is the session bearer token.
	Token string
}

// campaignOffer is the offer payload nested in each response entry.
type campaignOffer struct {
	// ExcludedSailings lists sailings not eligible for the offer.
	ExcludedSailings []sailing `json:"excludedSailings"`

	// Name is the offer name.
	Name string `json:"name"`

	// OfferCode is the offer identifier.
	OfferCode string `json:"offerCode"`

	// ReserveByDate is the last booking date.
	ReserveByDate string `json:"reserveByDate"`

	// Sailings lists the eligible sailings.
	Sailings []sailing `json:"sailings"`

	// StartDate is the first valid date.
	StartDate string `json:"startDate"`
}

// namedRef is a nested object that only carries a display name.
type namedRef struct {
	Name string `json:"name"`
}

// offerEntry wraps a campaign offer in the response.
type offerEntry struct {
	CampaignOffer *campaignOffer `json:"campaignOffer"`
}

// offersRequestBody is the JSON body posted to the offers endpoint.
type offersRequestBody struct {
	Brand     Brand  `json:"brand"`
	LoyaltyID string `json:"cruiseLoyaltyId"`
	OfferCode string `json:"offerCode"`
}

// offersResponse is the JSON returned by the offers endpoint.
type offersResponse struct {
	Offers []offerEntry `json:"offers"`
}

// sailing is a sailing as the upstream returns it. The ship code may appear in any of three
// places depending on the endpoint version.
type sailing struct {
	DeparturePort        *namedRef `json:"departurePort"`
	ItineraryCode        *string   `json:"itineraryCode"`
	ItineraryDescription string    `json:"itineraryDescription"`
	SailDate             string    `json:"sailDate"`
	SailingType          *namedRef `json:"sailingType"`
	Ship                 *shipRef  `json:"ship"`
	ShipCode             string    `json:"shipCode"`
	ShipName             string    `json:"shipName"`
}

// shipRef is the nested ship object of a sailing.
type shipRef struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ShipCode string `json:"shipCode"`
}
