package magazine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedPayload is returned when a response body cannot be used as a Payload
var ErrMalformedPayload = errors.New("malformed payload")

// wirePayload keeps pointers so missing keys can be told apart from empty ones
type wirePayload struct {
	Tagline  *string    `json:"tagline"`
	Articles *[]Article `json:"articles"`
}

// DecodePayload reads a JSON payload from r. Only key presence is checked.
func DecodePayload(r io.Reader) (*Payload, error) {
	dec := json.NewDecoder(r)

	var wire wirePayload
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after payload", ErrMalformedPayload)
	}
	if wire.Tagline == nil {
		return nil, fmt.Errorf("%w: missing tagline", ErrMalformedPayload)
	}
	if wire.Articles == nil {
		return nil, fmt.Errorf("%w: missing articles", ErrMalformedPayload)
	}

	return &Payload{
		Tagline:  *wire.Tagline,
		Articles: *wire.Articles,
	}, nil
}
