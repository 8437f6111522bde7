// Package handlers implements the request handlers of the orders API over a
// transport-neutral request/response envelope, plus the gin and Lambda
// adapters that feed it.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request is the inbound envelope. Absent maps and a nil body are valid.
type Request struct {
	PathParameters        map[string]string `json:"pathParameters,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
	Body                  *string           `json:"body,omitempty"`
}

// PathParameter returns the named path parameter or "".
func (r Request) PathParameter(name string) string {
	return r.PathParameters[name]
}

// QueryParameter returns the named query string parameter or "".
func (r Request) QueryParameter(name string) string {
	return r.QueryStringParameters[name]
}

// Response is the outbound envelope. Body is nil only for 204.
type Response struct {
	StatusCode int     `json:"statusCode"`
	Body       *string `json:"body,omitempty"`
}

// Handler serves one operation. Errors are turned into responses by Boundary.
type Handler func(ctx context.Context, req Request) (Response, error)

func jsonResponse(status int, v any) (Response, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Response{}, err
	}
	body := string(payload)
	return Response{StatusCode: status, Body: &body}, nil
}

func noContent() Response {
	return Response{StatusCode: http.StatusNoContent}
}
