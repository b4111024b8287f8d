package casino

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		errMsg        string
		expectedURL   string
		expectedBrand Brand
		opts          []Option
		wantErr       bool
	}{
		"defaults to royal": {
			expectedURL:   "https://www.royalcaribbean.com",
			expectedBrand: BrandRoyal,
		},
		"celebrity brand selects celebrity site": {
			opts:          []Option{WithBrand(BrandCelebrity)},
			expectedURL:   "https://www.celebritycruises.com",
			expectedBrand: BrandCelebrity,
		},
		"custom base URL wins over brand": {
			opts:          []Option{WithBrand(BrandCelebrity), WithBaseURL("https://proxy.example.com/")},
			expectedURL:   "https://proxy.example.com",
			expectedBrand: BrandCelebrity,
		},
		"invalid option - empty base URL": {
			opts:    []Option{WithBaseURL("  ")},
			wantErr: true,
			errMsg:  "base URL cannot be empty",
		},
		"invalid option - unknown brand": {
			opts:    []Option{WithBrand("X")},
			wantErr: true,
			errMsg:  `unknown brand "X"`,
		},
		"invalid option - nil HTTP client": {
			opts:    []Option{WithHTTPClient(nil)},
			wantErr: true,
			errMsg:  "HTTP client cannot be nil",
		},
		"invalid option - zero timeout": {
			opts:    []Option{WithTimeout(0)},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(tc.opts...)

			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errMsg)
				require.Nil(t, client)
			} else {
				require.NoError(t, err)
				require.NotNil(t, client)
				require.Equal(t, tc.expectedURL, client.baseURL)
				require.Equal(t, tc.expectedBrand, client.Brand())
			}
		})
	}
}

func TestNewClient_TimeoutApplied(t *testing.T) {
	t.Parallel()

	client, err := NewClient(WithTimeout(5 * time.Second))
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestClient_Offers(t *testing.T) {
	t.Parallel()

	t.Run("sends request and maps response", func(t *testing.T) {
		t.Parallel()

		var gotBody offersRequestBody
		var gotHeaders http.Header
		var gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			gotPath = r.URL.Path
			gotHeaders = r.Header.Clone()
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"offers":[
				{"campaignOffer":{"offerCode":" 25TIER06 ","name":"Tier offer","sailings":[
					{"shipCode":"ov","sailDate":"2025-09-01","itineraryCode":"OV07","itineraryDescription":"7 NIGHT"},
					{"ship":{"shipCode":"RD","name":"Radiance"},"sailDate":"2025-10-01","itineraryCode":null,"sailingType":{"name":"4 NIGHT"}},
					{"ship":{"code":"AL"},"sailDate":"2025-11-01","departurePort":{"name":"MIAMI"}}
				],"excludedSailings":[{"shipCode":"HM","sailDate":"2025-12-01"}]}},
				{"campaignOffer":{"offerCode":"EMPTY","sailings":[]}},
				{"campaignOffer":null}
			]}`))
		}))
		defer server.Close()

		client, err := NewClient(WithBaseURL(server.URL))
		require.NoError(t, err)

		got, err := client.Offers(context.Background(), OffersRequest{
			AccountID: "acct-1",
			LoyaltyID: "loyal-1",
			Token:     "tok",
		})
		require.NoError(t, err)

		require.Equal(t, offersPath, gotPath)
		require.Equal(t, "Bearer tok", gotHeaders.Get("Authorization"))
		require.Equal(t, "acct-1", gotHeaders.Get("Account-Id"))
		require.Equal(t, "application/json", gotHeaders.Get("Accept"))
		require.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
		require.Equal(t, offersRequestBody{Brand: BrandRoyal, LoyaltyID: "loyal-1", OfferCode: ""}, gotBody)

		require.Len(t, got, 2)
		require.Equal(t, "25TIER06", got[0].Code)
		require.Equal(t, "Tier offer", got[0].Name)
		require.Len(t, got[0].Sailings, 3)
		require.Equal(t, "OV", got[0].Sailings[0].ShipCode)
		require.Equal(t, "OV07", *got[0].Sailings[0].ItineraryCode)
		require.Equal(t, "RD", got[0].Sailings[1].ShipCode)
		require.Nil(t, got[0].Sailings[1].ItineraryCode)
		require.Equal(t, "4 NIGHT", got[0].Sailings[1].ItineraryDescription)
		require.Equal(t, "Radiance", got[0].Sailings[1].ShipName)
		require.Equal(t, "AL", got[0].Sailings[2].ShipCode)
		require.Equal(t, "MIAMI", got[0].Sailings[2].DeparturePort)
		require.Len(t, got[0].ExcludedSailings, 1)

		require.Equal(t, "EMPTY", got[1].Code)
		require.NotNil(t, got[1].Sailings)
		require.Empty(t, got[1].Sailings)
		require.Nil(t, got[1].ExcludedSailings)
	})

	t.Run("does not double bearer prefix", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"offers":[]}`))
		}))
		defer server.Close()

		client, err := NewClient(WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.Offers(context.Background(), OffersRequest{Token: "Bearer abc"})
		require.NoError(t, err)
		require.Equal(t, "Bearer abc", gotAuth)
	})
}

func TestClient_Offers_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body   string
		check  func(t *testing.T, err error)
		status int
	}{
		"403 is auth expired": {
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrAuthExpired)
				require.False(t, IsRetryable(err))
			},
		},
		"503 is unavailable": {
			status: http.StatusServiceUnavailable,
			body:   "busy",
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnavailable)
				require.True(t, IsRetryable(err))
			},
		},
		"500 is protocol error with body": {
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(t *testing.T, err error) {
				var protoErr *ProtocolError
				require.ErrorAs(t, err, &protoErr)
				require.Equal(t, http.StatusInternalServerError, protoErr.StatusCode)
				require.Equal(t, "boom", protoErr.Body)
				require.False(t, IsRetryable(err))
			},
		},
		"malformed JSON is transient": {
			status: http.StatusOK,
			body:   `{"offers":`,
			check: func(t *testing.T, err error) {
				var transient *TransientError
				require.ErrorAs(t, err, &transient)
				require.True(t, IsRetryable(err))
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewClient(WithBaseURL(server.URL))
			require.NoError(t, err)

			got, err := client.Offers(context.Background(), OffersRequest{Token: "tok"})
			require.Error(t, err)
			require.Nil(t, got)
			tc.check(t, err)
		})
	}
}

func TestClient_Offers_NetworkErrorIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(WithBaseURL(baseURL))
	require.NoError(t, err)

	_, err = client.Offers(context.Background(), OffersRequest{Token: "tok"})

	var transient *TransientError
	require.ErrorAs(t, err, &transient)
}

func TestClient_Offers_CancelledContextIsNotRetryable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"offers":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Offers(ctx, OffersRequest{Token: "tok"})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, IsRetryable(err))
}

func TestClient_Offer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body offersRequestBody
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch body.OfferCode {
		case "MISSING":
			_, _ = w.Write([]byte(`{"offers":[{"campaignOffer":{"offerCode":"OTHER","sailings":[]}}]}`))
		default:
			_, _ = w.Write([]byte(`{"offers":[
				{"campaignOffer":{"offerCode":"OTHER","sailings":[]}},
				{"campaignOffer":{"offerCode":"` + body.OfferCode + `","sailings":[{"shipCode":"OV","sailDate":"2025-09-01","itineraryCode":"X"}]}}
			]}`))
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(WithBaseURL(server.URL))
	require.NoError(t, err)

	t.Run("returns matching offer", func(t *testing.T) {
		t.Parallel()

		got, err := client.Offer(context.Background(), OffersRequest{OfferCode: " 25TIER06 "})
		require.NoError(t, err)
		require.Equal(t, "25TIER06", got.Code)
		require.Len(t, got.Sailings, 1)
	})

	t.Run("missing offer is an error", func(t *testing.T) {
		t.Parallel()

		got, err := client.Offer(context.Background(), OffersRequest{OfferCode: "MISSING"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "offer MISSING not found in response")
		require.Nil(t, got)
	})

	t.Run("code is required", func(t *testing.T) {
		t.Parallel()

		_, err := client.Offer(context.Background(), OffersRequest{})
		require.Error(t, err)
		require.False(t, errors.Is(err, ErrUnavailable))
	})
}
