package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/familytree/pkg/errors"
)

// DefaultMaxBody is the body limit used when DecodeJSON gets a limit <= 0.
const DefaultMaxBody = 10 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an ErrorBody and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	body := ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if status == http.StatusInternalServerError {
		body = ErrorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	WriteJSON(w, status, body)
	return status
}

// DecodeJSON decodes the request body into v. Bodies over maxBytes,
// trailing data and unknown fields are INVALID_INPUT.
func DecodeJSON(r *http.Request, v any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body has trailing data")
	}
	if dec.InputOffset() > maxBytes {
		return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBytes)
	}
	return nil
}
