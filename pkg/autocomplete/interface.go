// Package autocomplete is the core, mediating between raw UI input and the
// places service: keystrokes come in on Search, the debounce layer drops the
// superseded ones, and the surviving query updates an observable session
// state that any UI can subscribe to.
package autocomplete

import (
	"context"

	"github.com/iguilhermeluis/placeserve/pkg/places"
)

// Service defines the two query operations a session needs from the
// external places capability. *places.Client satisfies it.
type Service interface {
	// Autocomplete runs a text prediction search, preserving service ranking
	Autocomplete(ctx context.Context, req places.AutocompleteRequest) ([]places.Prediction, error)

	// Details resolves the full record for one place id
	Details(ctx context.Context, req places.DetailsRequest) (*places.PlaceDetails, error)
}

// Snapshot is one consistent view of session state, handed to subscribers
// on every change.
type Snapshot struct {
	Predictions []places.Prediction
	Loading     bool
	APILoaded   bool
}

// ISession defines the observable autocomplete surface consumed by the
// serving layers (IPC server, interactive CLI).
type ISession interface {
	// Search schedules a debounced prediction query for the given input
	Search(input string)

	// FetchPlaceDetails resolves one prediction immediately, no debounce
	FetchPlaceDetails(ctx context.Context, placeID string) (*places.PlaceDetails, error)

	// ResetPredictions clears the prediction list and nothing else
	ResetPredictions()

	// Predictions returns a copy of the current ranked prediction list
	Predictions() []places.Prediction

	// Loading reports whether a search query is in flight
	Loading() bool

	// APILoaded reports whether the capability finished loading
	APILoaded() bool

	// Subscribe registers a callback invoked with a Snapshot on every change
	Subscribe(fn func(Snapshot))

	// Close detaches the session; late responses are discarded after it
	Close()
}
