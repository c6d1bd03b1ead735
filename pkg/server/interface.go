/*
Package server implements msgpack IPC for place autocomplete sessions.

The server package provides a minimal interface for address autocomplete using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports debounced search requests, place-detail lookups, prediction resets, and health checks.
Search is asynchronous by nature: the debounce window means predictions land after the request returns, so they are pushed as events instead of replies.

# IPC

The server operates on a request response model for details/reset/health, plus server-pushed prediction events.
Each request contains an ID field, an op field, and other fields based on the operation type.

Search requests use mainly this structure:

	{"id": "req_001", "op": "search", "q": "123 Main"}

The server acks the request immediately:

	{"id": "req_001", "status": "accepted"}

and pushes prediction events once the quiet period elapses and the service answers:

	{"ev": "predictions", "s": [{"pid": "a", "d": "A St", "r": 1}], "c": 1, "l": false}

Detail lookups are synchronous request/response:

	{"id": "req_002", "op": "details", "pid": "ChIJ..."}
	{"id": "req_002", "status": "ok", "place": {"pid": "ChIJ...", "name": "...", "addr": "...", "lat": -23.5, "lng": -46.6}, "t": 98}

Error responses include the request ID, a message and a code when an op fails.

# Message Types

Request carries every incoming operation; the op field selects the handler.
PredictionsEvent is the pushed snapshot of the session's ranked prediction list
with its loading flag, emitted on every session state change.
DetailsResponse carries the resolved place record plus timing data.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and reducing latency in editor/UI round trips.
*/
package server

// Request - incoming IPC request
type Request struct {
	ID      string `msgpack:"id"`
	Op      string `msgpack:"op"` // "search", "details", "reset", "health"
	Input   string `msgpack:"q,omitempty"`
	PlaceID string `msgpack:"pid,omitempty"`
}

// PredictionItem - one ranked prediction in an event payload
type PredictionItem struct {
	PlaceID     string `msgpack:"pid"`
	Description string `msgpack:"d"`
	Rank        uint16 `msgpack:"r"`
}

// Ack - immediate reply to accepted async ops (search, reset)
type Ack struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// PredictionsEvent - pushed whenever the session's prediction list or
// loading flag changes
type PredictionsEvent struct {
	Event       string           `msgpack:"ev"`
	Predictions []PredictionItem `msgpack:"s"`
	Count       int              `msgpack:"c"`
	Loading     bool             `msgpack:"l"`
}

// PlacePayload - resolved place record in a details response
type PlacePayload struct {
	PlaceID string  `msgpack:"pid"`
	Name    string  `msgpack:"name,omitempty"`
	Address string  `msgpack:"addr,omitempty"`
	Lat     float64 `msgpack:"lat"`
	Lng     float64 `msgpack:"lng"`
}

// DetailsResponse - reply to a details lookup
type DetailsResponse struct {
	ID        string       `msgpack:"id"`
	Status    string       `msgpack:"status"`
	Place     PlacePayload `msgpack:"place"`
	TimeTaken int64        `msgpack:"t"`
}

// HealthResponse - reply to a health check
type HealthResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	APILoaded bool   `msgpack:"api_loaded"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
