package response

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const jsonContentType = "application/json; charset=utf-8"

// Envelope wraps every successful body on the /api routes.
type Envelope struct {
	Data any `json:"data"`
}

const encodeFailedBody = `{"error":{"code":"internal_error","message":"internal error"}}` + "\n"

// WriteJSON encodes v fully before writing headers; a value that cannot be
// encoded becomes a 500 internal_error. An existing Content-Type is kept.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		buf.WriteString(encodeFailedBody)
		status = http.StatusInternalServerError
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", jsonContentType)
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// OK is used for login and profile reads.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

// Created is used once a farmer account is stored.
func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}
