// Package alb adapts the router to Lambda invocations from an Application
// Load Balancer target group.
package alb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/config"
	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
)

// Router serves a single request.
type Router interface {
	Handle(ctx context.Context, req domain.Request) (domain.Response, error)
}

// Handler is the Lambda entry point. Depending on the configured format it
// answers with an ALB response object or its JSON text; a request without a
// host header is answered with the bare invalid invocation sentinel.
type Handler struct {
	router Router
	format string
}

// NewHandler creates a handler; unknown formats fall back to the object form.
func NewHandler(router Router, format string) *Handler {
	if format != config.ResponseFormatText {
		format = config.ResponseFormatObject
	}
	return &Handler{router: router, format: format}
}

// Invoke handles one ALB event. Only mapping configuration failures are
// returned as errors.
func (h *Handler) Invoke(ctx context.Context, event events.ALBTargetGroupRequest) (any, error) {
	resp, err := h.router.Handle(ctx, RequestFromEvent(event))
	if err != nil {
		if errors.Is(err, zerrors.ErrInvalidInvocation) {
			log.Warn("Invocation without host header")
			return zerrors.InvalidInvocationSentinel, nil
		}
		return nil, err
	}

	if h.format == config.ResponseFormatText {
		encoded, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response: %w", err)
		}
		return string(encoded), nil
	}
	return ResponseToEvent(resp), nil
}

// RequestFromEvent extracts headers and path. Target groups with multi-value
// headers enabled deliver headers only in MultiValueHeaders; the first value
// of each is used then.
func RequestFromEvent(event events.ALBTargetGroupRequest) domain.Request {
	headers := event.Headers
	if headers == nil && event.MultiValueHeaders != nil {
		headers = make(map[string]string, len(event.MultiValueHeaders))
		for name, values := range event.MultiValueHeaders {
			if len(values) > 0 {
				headers[name] = values[0]
			}
		}
	}
	return domain.Request{Headers: headers, Path: event.Path}
}

// ResponseToEvent converts a router response into the ALB response shape.
func ResponseToEvent(resp domain.Response) events.ALBTargetGroupResponse {
	return events.ALBTargetGroupResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: resp.StatusDescription,
		Headers:           resp.Headers,
		Body:              resp.Body,
		IsBase64Encoded:   resp.IsBase64Encoded,
	}
}
