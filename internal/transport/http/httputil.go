package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "shopfolio/pkg/domain-errors"
)

// writeJSON encodes v with the standard content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to the JSON error envelope. Internal errors
// omit the description so internals never leak through transport.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		body["error_description"] = dErrors.Message(err)
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), body)
}

// decodeJSON parses the request body into dst, rejecting unknown payloads
// with a coded bad request.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
