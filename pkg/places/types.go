package places

// Prediction is one candidate match from a text search. The service returns
// predictions already ranked; slice order is meaningful and preserved as-is.
type Prediction struct {
	PlaceID       string        `json:"place_id"`
	Description   string        `json:"description"`
	MainText      string        `json:"main_text,omitempty"`
	SecondaryText string        `json:"secondary_text,omitempty"`
	Types         []string      `json:"types,omitempty"`
	Terms         []MatchedTerm `json:"terms,omitempty"`
}

// MatchedTerm is one section of a prediction description, as split by the
// service (street, city, country...).
type MatchedTerm struct {
	Offset int    `json:"offset"`
	Value  string `json:"value"`
}

// PlaceDetails is the full structured record for one resolved place.
type PlaceDetails struct {
	PlaceID           string             `json:"place_id"`
	Name              string             `json:"name,omitempty"`
	FormattedAddress  string             `json:"formatted_address,omitempty"`
	Geometry          Geometry           `json:"geometry"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
	Types             []string           `json:"types,omitempty"`
	URL               string             `json:"url,omitempty"`
	UTCOffset         int                `json:"utc_offset,omitempty"`
	Vicinity          string             `json:"vicinity,omitempty"`
}

// AddressComponent is one structured address field of a place detail.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Geometry holds the geocoded location of a place.
type Geometry struct {
	Location Location  `json:"location"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Location represents geographic coordinates
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport is the recommended map viewport for a place.
type Viewport struct {
	Northeast Location `json:"northeast"`
	Southwest Location `json:"southwest"`
}

// AutocompleteRequest holds parameters for a prediction query. Params is
// passed through to the service verbatim, no validation, so callers can use
// any filter the web service understands (types, components, location bias).
type AutocompleteRequest struct {
	Input        string
	SessionToken string
	Params       map[string]string
}

// DetailsRequest holds parameters for a place-detail lookup.
type DetailsRequest struct {
	PlaceID      string
	SessionToken string
	Fields       []string
}

// wire formats

type autocompleteResponse struct {
	Status       string           `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Predictions  []predictionJSON `json:"predictions"`
}

type predictionJSON struct {
	Description          string        `json:"description"`
	PlaceID              string        `json:"place_id"`
	Types                []string      `json:"types,omitempty"`
	Terms                []MatchedTerm `json:"terms,omitempty"`
	StructuredFormatting struct {
		MainText      string `json:"main_text"`
		SecondaryText string `json:"secondary_text"`
	} `json:"structured_formatting"`
}

type detailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Result       PlaceDetails `json:"result"`
}

func (p predictionJSON) toPrediction() Prediction {
	return Prediction{
		PlaceID:       p.PlaceID,
		Description:   p.Description,
		MainText:      p.StructuredFormatting.MainText,
		SecondaryText: p.StructuredFormatting.SecondaryText,
		Types:         p.Types,
		Terms:         p.Terms,
	}
}
