package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
)

// Record is one loosely typed row returned by a resource endpoint.
type Record map[string]any

// ListResource fetches a collection endpoint such as /api/patients. Both
// bare arrays and {"data": [...]} / {"<last segment>": [...]} envelopes are
// accepted.
func (c *Client) ListResource(ctx context.Context, resourcePath string) ([]Record, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, resourcePath, nil, &raw); err != nil {
		return nil, err
	}
	resource := path.Base(resourcePath)

	var rows []Record
	if err := decodeNumbers(raw, &rows); err == nil {
		return rows, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, resource, err)
	}
	for _, key := range []string{"data", resource, "items"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := decodeNumbers(inner, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrMalformedResponse, resource, key, err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s: no list in response", ErrMalformedResponse, resource)
}

// decodeNumbers keeps numeric cells as json.Number so ids and phone numbers
// are not rounded through float64.
func decodeNumbers(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}
