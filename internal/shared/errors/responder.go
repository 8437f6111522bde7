package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Body is the JSON document returned for every failed request.
type Body struct {
	Error string `json:"error"`
}

// ErrorMapper converts an error from a lower layer into a tagged Error.
// It returns false when it does not recognise err.
type ErrorMapper func(err error) (*Error, bool)

// Responder renders failures into status codes and JSON bodies.
type Responder struct {
	mappers []ErrorMapper
}

// NewResponder creates a responder that consults mappers before falling
// back to the tag (or KindInternal) carried by the error itself.
func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// DefaultResponder only understands tagged errors.
var DefaultResponder = NewResponder()

// AddMapper appends a mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// Resolve classifies err and returns the status code and message to expose.
func (r *Responder) Resolve(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}
	for _, mapper := range r.mappers {
		if tagged, ok := mapper(err); ok && tagged != nil {
			return tagged.Kind.Status(), tagged.Error()
		}
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind.Status(), tagged.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

// Render returns the status code and encoded body for err.
func (r *Responder) Render(err error) (int, []byte) {
	status, message := r.Resolve(err)
	payload, marshalErr := json.Marshal(Body{Error: message})
	if marshalErr != nil {
		return http.StatusInternalServerError, []byte(`{"error":"failed to encode error body"}`)
	}
	return status, payload
}

// Render is a convenience function using the default responder.
func Render(err error) (int, []byte) {
	return DefaultResponder.Render(err)
}
