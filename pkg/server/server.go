package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iguilhermeluis/placeserve/internal/logger"
	"github.com/iguilhermeluis/placeserve/internal/utils"
	"github.com/iguilhermeluis/placeserve/pkg/autocomplete"
	"github.com/iguilhermeluis/placeserve/pkg/config"
	"github.com/iguilhermeluis/placeserve/pkg/places"
)

// Server handles the IPC for autocomplete sessions
type Server struct {
	session autocomplete.ISession
	cfg     *config.Config
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
	log     *log.Logger

	// encMu guards the encoder: prediction events arrive from the debounce
	// goroutine while replies go out from the read loop.
	encMu sync.Mutex
}

// NewServer creates a new autocomplete server using stdin/stdout for IPC
func NewServer(session autocomplete.ISession, cfg *config.Config) *Server {
	return NewServerWithIO(session, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams, used by tests.
func NewServerWithIO(session autocomplete.ISession, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		session: session,
		cfg:     cfg,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
		log:     logger.New("ipc"),
	}
}

// Start begins listening for IPC requests. It subscribes to the session so
// prediction changes are pushed as events, then blocks on the read loop
// until EOF or a decode failure.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")

	s.session.Subscribe(s.pushPredictions)

	// Signal that the server is ready
	s.send(&Ack{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request on its op field
func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case "search":
		s.handleSearch(request)
	case "details":
		s.handleDetails(request)
	case "reset":
		s.session.ResetPredictions()
		s.send(&Ack{ID: request.ID, Status: "ok"})
	case "health":
		s.send(&HealthResponse{ID: request.ID, Status: "ok", APILoaded: s.session.APILoaded()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleSearch validates the input and feeds it to the debounced session.
// The ack goes out immediately; predictions follow as pushed events once
// the quiet period elapses.
func (s *Server) handleSearch(request Request) {
	input := request.Input

	if input == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		s.log.Debug("Input is empty in request")
		return
	}

	if len(input) < s.cfg.Autocomplete.MinInput {
		s.sendError(request.ID, fmt.Sprintf("Input must be at least %d characters", s.cfg.Autocomplete.MinInput), 400)
		s.log.Debug("Input is too short in request")
		return
	}

	if len(input) > s.cfg.Autocomplete.MaxInput {
		s.sendError(request.ID, fmt.Sprintf("Input exceeds maximum length of %d characters", s.cfg.Autocomplete.MaxInput), 400)
		s.log.Debug("Input is too long in request")
		return
	}

	if !utils.IsValidQuery(input) {
		// Keystroke noise never reaches the service, but the client still
		// gets its ack so it can keep typing.
		s.log.Debugf("Dropping noisy input: '%s'", input)
		s.send(&Ack{ID: request.ID, Status: "accepted"})
		return
	}

	s.session.Search(input)
	s.send(&Ack{ID: request.ID, Status: "accepted"})
}

// handleDetails resolves a place id synchronously and replies with the
// structured record or an error.
func (s *Server) handleDetails(request Request) {
	if request.PlaceID == "" {
		s.sendError(request.ID, "Missing 'pid' parameter", 400)
		return
	}

	start := time.Now()
	details, err := s.session.FetchPlaceDetails(context.Background(), request.PlaceID)
	elapsed := time.Since(start)

	if err != nil {
		s.sendError(request.ID, err.Error(), 404)
		return
	}
	if details == nil {
		// Capability never loaded; the session degrades to a no-op.
		s.sendError(request.ID, "Maps capability not loaded", 503)
		return
	}

	s.send(&DetailsResponse{
		ID:     request.ID,
		Status: "ok",
		Place: PlacePayload{
			PlaceID: details.PlaceID,
			Name:    details.Name,
			Address: details.FormattedAddress,
			Lat:     details.Geometry.Location.Lat,
			Lng:     details.Geometry.Location.Lng,
		},
		TimeTaken: elapsed.Milliseconds(),
	})
}

// pushPredictions forwards a session snapshot to the client as an event.
func (s *Server) pushPredictions(snap autocomplete.Snapshot) {
	s.send(&PredictionsEvent{
		Event:       "predictions",
		Predictions: rankPredictions(snap.Predictions, s.cfg.Autocomplete.MaxPredictions),
		Count:       len(snap.Predictions),
		Loading:     snap.Loading,
	})
}

// send marshals the given response and writes it to the client.
func (s *Server) send(response interface{}) {
	s.encMu.Lock()
	defer s.encMu.Unlock()
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(&ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// rankPredictions converts the session's ordered prediction list into wire
// items with 1-based ranks, truncated to the configured maximum.
func rankPredictions(preds []places.Prediction, limit int) []PredictionItem {
	if limit > 0 && len(preds) > limit {
		preds = preds[:limit]
	}
	result := make([]PredictionItem, len(preds))
	for i, p := range preds {
		result[i] = PredictionItem{
			PlaceID:     p.PlaceID,
			Description: p.Description,
			Rank:        uint16(i + 1),
		}
	}
	return result
}
