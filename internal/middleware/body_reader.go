package middleware

import (
	"bytes"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read into memory.
const MaxBodyBytes = 1 << 20

// ReadBody reads the request body and replaces it with a re-readable copy.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
