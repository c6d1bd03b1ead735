// Package cli handles cmd line input and predictions for DBG and testing various features
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/iguilhermeluis/placeserve/internal/utils"
	"github.com/iguilhermeluis/placeserve/pkg/autocomplete"
)

// InputHandler processes user input from stdin, feeding each line into the
// debounced session and printing the ranked predictions as they land.
// It accepts many flags to control behavior such as minimum and maximum
// input length, prediction limits, and filtering options.
type InputHandler struct {
	session        autocomplete.ISession
	minInputLength int
	maxInputLength int
	predictLimit   int
	noFilter       bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(session autocomplete.ISession, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		session:        session,
		minInputLength: minLength,
		maxInputLength: maxLength,
		predictLimit:   limit,
		noFilter:       noFilter,
	}
}

// Start begins the interface loop.
// It subscribes to the session so prediction updates print whenever the
// debounce window closes, then continuously reads lines from stdin.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("PlaceServe CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type an address and press Enter to see predictions (Ctrl+C to exit)")
	log.Print("':sel N' resolves prediction N, ':reset' clears the list")

	h.session.Subscribe(h.printSnapshot)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single line: either a command (":sel", ":reset")
// or a raw query fed to the debounced session.
func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line)
		return
	}

	if len(line) < h.minInputLength {
		log.Errorf("Input too short: %s", line)
		return
	}

	if len(line) > h.maxInputLength {
		log.Errorf("Input too long: %s", line)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidQuery(line) {
			log.Infof("Skipping noisy input: '%s'", line)
			return
		}
	} else {
		log.Debug("Input filtering disabled - forwarding raw queries")
	}

	log.Debug("Scheduling query for", "input", line)
	h.session.Search(line)
}

// handleCommand runs one ':' command against the current prediction list.
func (h *InputHandler) handleCommand(line string) {
	switch {
	case line == ":reset":
		h.session.ResetPredictions()
	case strings.HasPrefix(line, ":sel"):
		arg := strings.TrimSpace(strings.TrimPrefix(line, ":sel"))
		n, err := strconv.Atoi(arg)
		if err != nil {
			log.Errorf("Usage: :sel N (got %q)", arg)
			return
		}
		h.selectPrediction(n)
	default:
		log.Errorf("Unknown command: %s", line)
	}
}

// selectPrediction resolves the n-th (1-based) prediction to full details.
func (h *InputHandler) selectPrediction(n int) {
	predictions := h.session.Predictions()
	if n < 1 || n > len(predictions) {
		log.Errorf("No prediction %d (have %d)", n, len(predictions))
		return
	}

	p := predictions[n-1]
	details, err := h.session.FetchPlaceDetails(context.Background(), p.PlaceID)
	if err != nil {
		log.Warnf("Lookup failed for '%s': %v", p.Description, err)
		return
	}
	if details == nil {
		log.Warn("Maps capability not loaded, nothing to resolve")
		return
	}

	log.Printf("Resolved '%s':", p.Description)
	log.Printf("  address: %s", details.FormattedAddress)
	log.Printf("  location: %.6f, %.6f", details.Geometry.Location.Lat, details.Geometry.Location.Lng)
	for _, comp := range details.AddressComponents {
		log.Printf("  %-24s %s", strings.Join(comp.Types, ","), comp.LongName)
	}
}

// printSnapshot renders a session snapshot to the terminal.
func (h *InputHandler) printSnapshot(snap autocomplete.Snapshot) {
	if snap.Loading {
		log.Debug("query in flight...")
		return
	}
	if len(snap.Predictions) == 0 {
		log.Warn("No predictions")
		return
	}

	limit := len(snap.Predictions)
	if h.predictLimit > 0 && limit > h.predictLimit {
		limit = h.predictLimit
	}

	log.Printf("Found %d predictions:", len(snap.Predictions))
	for i := 0; i < limit; i++ {
		p := snap.Predictions[i]
		clDesc := fmt.Sprintf("\033[38;5;75m%s\033[0m", p.Description)
		log.Printf("%2d. %-50s (%s)", i+1, clDesc, p.PlaceID)
	}
}
