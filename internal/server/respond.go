package server

import (
	"encoding/json"
	"net/http"

	fgerrors "github.com/matzehuels/followgraph/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string        `json:"error"`
	Code  fgerrors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := fgerrors.GetCode(err)
	if code == "" {
		code = fgerrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Error: fgerrors.UserMessage(err), Code: code})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code fgerrors.Code) int {
	switch code {
	case fgerrors.ErrCodeInvalidInput,
		fgerrors.ErrCodeInvalidRecord,
		fgerrors.ErrCodeInvalidSelection,
		fgerrors.ErrCodeInvalidProperty,
		fgerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case fgerrors.ErrCodeNotFound, fgerrors.ErrCodeNodeNotFound, fgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fgerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case fgerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
