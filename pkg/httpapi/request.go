package httpapi

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes a request body, rejecting unknown fields so typos in
// payloads fail loudly instead of being silently dropped.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
