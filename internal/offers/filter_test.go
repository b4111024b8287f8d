package offers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyExclusions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		offer Offer
		want  []Sailing
	}{
		"removes excluded sailing": {
			offer: Offer{
				Code:             "A",
				Sailings:         []Sailing{sailing("OV", "2025-09-01", ""), sailing("RD", "2025-10-01", "")},
				ExcludedSailings: []Sailing{{ShipCode: "ov", SailDate: "2025-09-01"}},
			},
			want: []Sailing{sailing("RD", "2025-10-01", "")},
		},
		"no exclusions is a copy": {
			offer: Offer{
				Code:     "A",
				Sailings: []Sailing{sailing("OV", "2025-09-01", "")},
			},
			want: []Sailing{sailing("OV", "2025-09-01", "")},
		},
		"keyless sailing is never excluded": {
			offer: Offer{
				Code:             "A",
				Sailings:         []Sailing{{ItineraryDescription: "mystery"}},
				ExcludedSailings: []Sailing{{ItineraryDescription: "mystery"}},
			},
			want: []Sailing{{ItineraryDescription: "mystery"}},
		},
		"keyless exclusion matches nothing": {
			offer: Offer{
				Code:             "A",
				Sailings:         []Sailing{sailing("OV", "2025-09-01", "")},
				ExcludedSailings: []Sailing{{ShipCode: "OV"}},
			},
			want: []Sailing{sailing("OV", "2025-09-01", "")},
		},
		"everything excluded": {
			offer: Offer{
				Code:             "A",
				Sailings:         []Sailing{sailing("OV", "2025-09-01", "")},
				ExcludedSailings: []Sailing{sailing("OV", "2025-09-01", "")},
			},
			want: []Sailing{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := ApplyExclusions(tc.offer)

			require.Equal(t, tc.want, got.Sailings)
			require.Equal(t, tc.offer.ExcludedSailings, got.ExcludedSailings)
			require.Equal(t, tc.offer.Code, got.Code)
		})
	}
}

func TestApplyExclusions_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := []Sailing{sailing("OV", "2025-09-01", ""), sailing("RD", "2025-10-01", "")}
	offer := Offer{
		Code:             "A",
		Sailings:         original,
		ExcludedSailings: []Sailing{sailing("OV", "2025-09-01", "")},
	}

	got := ApplyExclusions(offer)
	got.Sailings[0].ShipCode = "XX"

	require.Len(t, offer.Sailings, 2)
	require.Equal(t, "OV", offer.Sailings[0].ShipCode)
	require.Equal(t, "RD", offer.Sailings[1].ShipCode)
}

func TestParseNights(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		description string
		want        int
		wantOK      bool
	}{
		"NIGHT":                 {description: "10 NIGHT CRUISE", want: 10, wantOK: true},
		"NIGHTS lower case":     {description: "7 nights bahamas", want: 7, wantOK: true},
		"N":                     {description: "3 N Cozumel", want: 3, wantOK: true},
		"NT":                    {description: "4 NT Western Caribbean", want: 4, wantOK: true},
		"NTS":                   {description: "5 Nts Alaska", want: 5, wantOK: true},
		"leading tabs":          {description: "\t\t8 NIGHT", want: 8, wantOK: true},
		"surrounding spaces":    {description: "  9 NIGHT  ", want: 9, wantOK: true},
		"multi segment":         {description: "7 NIGHT + 3 NIGHT", want: 7, wantOK: true},
		"no space before unit":  {description: "7NIGHT", wantOK: false},
		"no count":              {description: "NIGHT CRUISE", wantOK: false},
		"empty":                 {description: "", wantOK: false},
		"unit glued to word":    {description: "7 NIGHTCAP", wantOK: false},
		"count not leading":     {description: "Cruise 7 NIGHT", wantOK: false},
		"count overflows int64": {description: "99999999999999999999 NIGHT", wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseNights(tc.description)

			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestApplyNightLimit(t *testing.T) {
	t.Parallel()

	tenNight := Sailing{ShipCode: "OV", SailDate: "2025-09-01", ItineraryDescription: "10 NIGHT CRUISE"}
	sevenNight := Sailing{ShipCode: "RD", SailDate: "2025-10-01", ItineraryDescription: "7 NIGHT CRUISE"}
	unparsable := Sailing{ShipCode: "AL", SailDate: "2025-11-01", ItineraryDescription: "Transatlantic"}
	blank := Sailing{ShipCode: "HM", SailDate: "2025-12-01"}

	tests := map[string]struct {
		limit NightLimit
		offer Offer
		want  []Sailing
	}{
		"tier offer drops long sailing": {
			limit: DefaultNightLimit(),
			offer: Offer{Code: "25TIER06", Sailings: []Sailing{tenNight}},
			want:  []Sailing{},
		},
		"non tier offer keeps long sailing": {
			limit: DefaultNightLimit(),
			offer: Offer{Code: "25STD06", Sailings: []Sailing{tenNight}},
			want:  []Sailing{tenNight},
		},
		"marker is case insensitive": {
			limit: DefaultNightLimit(),
			offer: Offer{Code: "25tier06", Sailings: []Sailing{tenNight, sevenNight}},
			want:  []Sailing{sevenNight},
		},
		"threshold is inclusive": {
			limit: NightLimit{CodeMarker: "TIER", MaxNights: 7},
			offer: Offer{Code: "TIER", Sailings: []Sailing{sevenNight}},
			want:  []Sailing{sevenNight},
		},
		"unparsable and empty descriptions are kept": {
			limit: DefaultNightLimit(),
			offer: Offer{Code: "TIER", Sailings: []Sailing{unparsable, blank, tenNight}},
			want:  []Sailing{unparsable, blank},
		},
		"custom marker and threshold": {
			limit: NightLimit{CodeMarker: "vip", MaxNights: 12},
			offer: Offer{Code: "25VIP01", Sailings: []Sailing{tenNight}},
			want:  []Sailing{tenNight},
		},
		"empty marker disables filter": {
			limit: NightLimit{MaxNights: 1},
			offer: Offer{Code: "TIER", Sailings: []Sailing{tenNight}},
			want:  []Sailing{tenNight},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := ApplyNightLimit(tc.offer, tc.limit)

			require.Equal(t, tc.want, got.Sailings)
		})
	}
}

func TestApplyRules(t *testing.T) {
	t.Parallel()

	offer := Offer{
		Code: "25TIER06",
		Sailings: []Sailing{
			sailing("OV", "2025-09-01", "4 NIGHT"),
			sailing("RD", "2025-10-01", "10 NIGHT"),
			sailing("AL", "2025-11-01", "3 NIGHT"),
		},
		ExcludedSailings: []Sailing{sailing("AL", "2025-11-01", "")},
	}

	got := ApplyRules(offer, DefaultNightLimit())

	require.Equal(t, []Sailing{sailing("OV", "2025-09-01", "4 NIGHT")}, got.Sailings)
}
