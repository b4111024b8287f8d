package casino

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSailing_ToDomainType(t *testing.T) {
	t.Parallel()

	code := "OV07"

	tests := map[string]struct {
		in       sailing
		expected func(t *testing.T, in sailing)
	}{
		"top-level ship code wins": {
			in: sailing{ShipCode: " ov ", Ship: &shipRef{ShipCode: "RD", Code: "AL"}, SailDate: "2025-09-01"},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "OV", in.ToDomainType().ShipCode)
			},
		},
		"nested shipCode before code": {
			in: sailing{Ship: &shipRef{ShipCode: "rd", Code: "AL"}},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "RD", in.ToDomainType().ShipCode)
			},
		},
		"nested code as last resort": {
			in: sailing{Ship: &shipRef{Code: "al"}},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "AL", in.ToDomainType().ShipCode)
			},
		},
		"no ship at all": {
			in: sailing{SailDate: "2025-09-01"},
			expected: func(t *testing.T, in sailing) {
				require.Empty(t, in.ToDomainType().ShipCode)
			},
		},
		"description falls back to sailing type": {
			in: sailing{SailingType: &namedRef{Name: "3 NIGHT"}},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "3 NIGHT", in.ToDomainType().ItineraryDescription)
			},
		},
		"description preferred over sailing type": {
			in: sailing{ItineraryDescription: "7 NIGHT", SailingType: &namedRef{Name: "3 NIGHT"}},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "7 NIGHT", in.ToDomainType().ItineraryDescription)
			},
		},
		"itinerary code pointer preserved": {
			in: sailing{ItineraryCode: &code},
			expected: func(t *testing.T, in sailing) {
				got := in.ToDomainType().ItineraryCode
				require.NotNil(t, got)
				require.Equal(t, "OV07", *got)
			},
		},
		"ship name from nested ship": {
			in: sailing{Ship: &shipRef{Name: "Odyssey"}},
			expected: func(t *testing.T, in sailing) {
				require.Equal(t, "Odyssey", in.ToDomainType().ShipName)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tc.expected(t, tc.in)
		})
	}
}

func TestCampaignOffer_ToDomainType(t *testing.T) {
	t.Parallel()

	t.Run("nil offer", func(t *testing.T) {
		t.Parallel()

		var c *campaignOffer
		require.Nil(t, c.ToDomainType())
	})

	t.Run("absent and empty sailing lists stay distinct", func(t *testing.T) {
		t.Parallel()

		got := (&campaignOffer{OfferCode: "A", Sailings: []sailing{}}).ToDomainType()
		require.NotNil(t, got.Sailings)
		require.Nil(t, got.ExcludedSailings)
	})

	t.Run("copies offer fields", func(t *testing.T) {
		t.Parallel()

		got := (&campaignOffer{
			Name:          "Tier",
			OfferCode:     " 25TIER06 ",
			ReserveByDate: "2025-08-31",
			StartDate:     "2025-08-01",
		}).ToDomainType()

		require.Equal(t, "25TIER06", got.Code)
		require.Equal(t, "Tier", got.Name)
		require.Equal(t, "2025-08-31", got.ReserveByDate)
		require.Equal(t, "2025-08-01", got.StartDate)
	})
}
