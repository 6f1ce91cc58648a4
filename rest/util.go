package rest

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxBody = int64(1 << 20)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// decodeJSON reads the request body into T.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("empty body")
		}
		return req, err
	}
	if dec.More() {
		return req, errors.New("multiple JSON values in body")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
