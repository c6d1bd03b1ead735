package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iguilhermeluis/placeserve/internal/utils"
	"github.com/iguilhermeluis/placeserve/pkg/debounce"
	"github.com/iguilhermeluis/placeserve/pkg/places"
)

// DefaultWait is the debounce quiet period used when Options leaves it zero.
const DefaultWait = 300 * time.Millisecond

// ErrDetailsNotFound is returned by FetchPlaceDetails when the service
// reports any non-OK status for the lookup, zero results included.
var ErrDetailsNotFound = errors.New("autocomplete: place details not found")

// Options configures a Session.
type Options struct {
	// Wait is the debounce quiet period for Search (default 300ms).
	Wait time.Duration

	// QueryParams is merged verbatim into every prediction query.
	// Not validated; whatever filter syntax the service accepts goes through.
	QueryParams map[string]string
}

// Session owns one autocomplete conversation: ranked predictions, a loading
// flag, and the loaded-capability flag, all guarded by one mutex and pushed
// to subscribers on change.
//
// In-flight responses are not serialized against each other. The debounce
// layer guarantees one query *starts* per quiet window, but two queries from
// back-to-back windows can resolve in either order and the last arrival
// wins. Known behavior, kept as-is.
type Session struct {
	mu          sync.Mutex
	opts        Options
	svc         Service
	loader      places.Loader
	deb         *debounce.Debouncer[string]
	predictions []places.Prediction
	loading     bool
	apiLoaded   bool
	closed      bool
	initialized bool
	token       string
	subs        []func(Snapshot)
}

// NewSession creates a session over the given service and loader.
// Call Init before searching; until then every operation is a no-op.
func NewSession(svc Service, loader places.Loader, opts Options) *Session {
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	s := &Session{
		opts:   opts,
		svc:    svc,
		loader: loader,
		token:  uuid.NewString(),
	}
	s.deb = debounce.New(opts.Wait, s.runSearch)
	return s
}

// Init makes the capability available, once. If the loader already finished
// a previous load the flag flips synchronously; otherwise a load is
// requested and a failure is logged and swallowed, leaving the session a
// permanent no-op. Init never returns the load error to the caller.
func (s *Session) Init(ctx context.Context) {
	s.mu.Lock()
	if s.initialized || s.closed {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	if s.loader.Loaded() {
		s.setAPILoaded()
		return
	}

	if err := s.loader.Load(ctx); err != nil {
		log.Errorf("maps capability failed to load: %v", err)
		return
	}
	s.setAPILoaded()
}

func (s *Session) setAPILoaded() {
	s.mu.Lock()
	s.apiLoaded = true
	s.mu.Unlock()
	s.notify()
}

// Search schedules a debounced prediction query. Only the last call per
// quiet window reaches the service. Empty input and an unloaded capability
// are silent no-ops that leave prior predictions untouched.
func (s *Session) Search(input string) {
	s.deb.Call(input)
}

// runSearch is the debounced body of Search; it runs on the timer goroutine.
func (s *Session) runSearch(input string) {
	input = utils.NormalizeQuery(input)

	s.mu.Lock()
	if s.closed || !s.apiLoaded || input == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true
	token := s.token
	params := s.opts.QueryParams
	s.mu.Unlock()
	s.notify()

	preds, err := s.svc.Autocomplete(context.Background(), places.AutocompleteRequest{
		Input:        input,
		SessionToken: token,
		Params:       params,
	})
	if err != nil {
		log.Warnf("prediction query failed for input '%s': %v", input, err)
		preds = []places.Prediction{}
	}

	s.mu.Lock()
	if s.closed {
		// Session torn down while the query was in flight; drop the result.
		s.mu.Unlock()
		return
	}
	s.predictions = preds
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// FetchPlaceDetails resolves one place immediately, bypassing the debounce.
// Returns (nil, nil) when the capability never loaded. A non-OK service
// status becomes ErrDetailsNotFound. The loading flag and the prediction
// list are never touched here.
func (s *Session) FetchPlaceDetails(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	s.mu.Lock()
	if s.closed || !s.apiLoaded {
		s.mu.Unlock()
		return nil, nil
	}
	token := s.token
	s.mu.Unlock()

	details, err := s.svc.Details(ctx, places.DetailsRequest{
		PlaceID:      placeID,
		SessionToken: token,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: place_id %s: %v", ErrDetailsNotFound, placeID, err)
	}

	// A resolved detail ends the billing session; start a fresh token.
	s.mu.Lock()
	s.token = uuid.NewString()
	s.mu.Unlock()

	return details, nil
}

// ResetPredictions clears the prediction list. Loading and the loaded flag
// stay as they are.
func (s *Session) ResetPredictions() {
	s.mu.Lock()
	s.predictions = []places.Prediction{}
	s.mu.Unlock()
	s.notify()
}

// Predictions returns a copy of the current ranked prediction list.
func (s *Session) Predictions() []places.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]places.Prediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}

// Loading reports whether a search query is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// APILoaded reports whether the capability finished loading.
func (s *Session) APILoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiLoaded
}

// Subscribe registers a callback that receives a Snapshot after every state
// change. Callbacks run outside the session lock, on whichever goroutine
// performed the change.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Close detaches the session: pending debounced calls are cancelled,
// responses still in flight are discarded on arrival, and subscribers are
// dropped. The loaded flag of a shared loader is left alone.
func (s *Session) Close() {
	s.deb.Stop()
	s.mu.Lock()
	s.closed = true
	s.subs = nil
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := Snapshot{
		Predictions: make([]places.Prediction, len(s.predictions)),
		Loading:     s.loading,
		APILoaded:   s.apiLoaded,
	}
	copy(snap.Predictions, s.predictions)
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
