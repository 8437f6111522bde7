package handlers

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"

	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// LambdaFunc is the signature lambda.Start accepts for API Gateway proxy events.
type LambdaFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LambdaAdapter converts API Gateway proxy events to the request envelope
// and back.
func LambdaAdapter(h Handler) LambdaFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromProxyRequest(event)
		if err != nil {
			status, body := apierrors.Render(err)
			return events.APIGatewayProxyResponse{StatusCode: status, Body: string(body), Headers: jsonHeaders()}, nil
		}
		resp, err := h(ctx, req)
		if err != nil {
			status, body := apierrors.Render(err)
			return events.APIGatewayProxyResponse{StatusCode: status, Body: string(body), Headers: jsonHeaders()}, nil
		}
		return ToProxyResponse(resp), nil
	}
}

// FromProxyRequest builds the envelope from an API Gateway event. An empty
// body is treated as absent.
func FromProxyRequest(event events.APIGatewayProxyRequest) (Request, error) {
	req := Request{
		PathParameters:        event.PathParameters,
		QueryStringParameters: event.QueryStringParameters,
	}
	if event.Body == "" {
		return req, nil
	}
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return Request{}, err
		}
		body = string(decoded)
	}
	req.Body = &body
	return req, nil
}

// ToProxyResponse converts the envelope to an API Gateway response.
func ToProxyResponse(resp Response) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{StatusCode: resp.StatusCode}
	if resp.Body != nil {
		out.Body = *resp.Body
		out.Headers = jsonHeaders()
	}
	return out
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}
