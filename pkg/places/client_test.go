package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutocompleteQueryParams(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, `{"status":"OK","predictions":[]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithLanguage("pt-BR"))
	_, err := c.Autocomplete(context.Background(), AutocompleteRequest{
		Input:        "123 Main St",
		SessionToken: "tok-1",
		Params:       map[string]string{"types": "address", "components": "country:br"},
	})
	require.NoError(t, err)

	assert.Equal(t, "123 Main St", got.Get("input"))
	assert.Equal(t, "test-key", got.Get("key"))
	assert.Equal(t, "pt-BR", got.Get("language"))
	assert.Equal(t, "tok-1", got.Get("sessiontoken"))
	assert.Equal(t, "address", got.Get("types"))
	assert.Equal(t, "country:br", got.Get("components"))
}

// Caller params must never shadow the reserved query keys.
func TestAutocompleteReservedKeysWin(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, `{"status":"OK","predictions":[]}`)
	}))
	defer srv.Close()

	c := NewClient("real-key", WithBaseURL(srv.URL))
	_, err := c.Autocomplete(context.Background(), AutocompleteRequest{
		Input:  "plaza",
		Params: map[string]string{"key": "spoofed", "input": "spoofed"},
	})
	require.NoError(t, err)

	assert.Equal(t, "real-key", got.Get("key"))
	assert.Equal(t, "plaza", got.Get("input"))
}

func TestAutocompletePreservesRanking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": "OK",
			"predictions": [
				{"place_id": "a", "description": "A St", "structured_formatting": {"main_text": "A St", "secondary_text": "Springfield"}},
				{"place_id": "b", "description": "B Ave"}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	preds, err := c.Autocomplete(context.Background(), AutocompleteRequest{Input: "a"})
	require.NoError(t, err)

	require.Len(t, preds, 2)
	assert.Equal(t, "a", preds[0].PlaceID)
	assert.Equal(t, "A St", preds[0].Description)
	assert.Equal(t, "Springfield", preds[0].SecondaryText)
	assert.Equal(t, "b", preds[1].PlaceID)
	assert.Equal(t, "B Ave", preds[1].Description)
}

// A search that matches nothing is an empty list, not an error.
func TestAutocompleteZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","predictions":[]}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	preds, err := c.Autocomplete(context.Background(), AutocompleteRequest{Input: "zzzzqqq"})
	require.NoError(t, err)
	assert.NotNil(t, preds)
	assert.Empty(t, preds)
}

func TestAutocompleteStatusErrors(t *testing.T) {
	testCases := []struct {
		status  string
		wantErr error
	}{
		{"OVER_QUERY_LIMIT", ErrQuotaExceeded},
		{"REQUEST_DENIED", ErrRequestDenied},
		{"INVALID_REQUEST", ErrInvalidRequest},
		{"SOMETHING_ELSE", ErrUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"status":%q,"error_message":"nope"}`, tc.status)
			}))
			defer srv.Close()

			c := NewClient("k", WithBaseURL(srv.URL))
			_, err := c.Autocomplete(context.Background(), AutocompleteRequest{Input: "x"})
			assert.True(t, errors.Is(err, tc.wantErr), "status %s should map to %v, got %v", tc.status, tc.wantErr, err)
		})
	}
}

func TestDetailsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xyz", r.URL.Query().Get("place_id"))
		fmt.Fprint(w, `{
			"status": "OK",
			"result": {
				"place_id": "xyz",
				"name": "City Hall",
				"formatted_address": "1 Plaza, Springfield",
				"geometry": {"location": {"lat": -23.55, "lng": -46.63}},
				"address_components": [
					{"long_name": "Springfield", "short_name": "SPR", "types": ["locality"]}
				]
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	det, err := c.Details(context.Background(), DetailsRequest{PlaceID: "xyz"})
	require.NoError(t, err)

	assert.Equal(t, "xyz", det.PlaceID)
	assert.Equal(t, "1 Plaza, Springfield", det.FormattedAddress)
	assert.InDelta(t, -23.55, det.Geometry.Location.Lat, 1e-9)
	require.Len(t, det.AddressComponents, 1)
	assert.Equal(t, "Springfield", det.AddressComponents[0].LongName)
}

// For details even ZERO_RESULTS is a failed lookup.
func TestDetailsNonOKStatusFails(t *testing.T) {
	for _, status := range []string{"NOT_FOUND", "ZERO_RESULTS"} {
		t.Run(status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"status":%q}`, status)
			}))
			defer srv.Close()

			c := NewClient("k", WithBaseURL(srv.URL))
			det, err := c.Details(context.Background(), DetailsRequest{PlaceID: "nope"})
			assert.Nil(t, det)
			assert.Error(t, err)
		})
	}
}

func TestHTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Autocomplete(context.Background(), AutocompleteRequest{Input: "x"})
	assert.Error(t, err)
}
