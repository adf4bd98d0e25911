package alb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzenonn/zhost/internal/config"
	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/service"
)

type mockRouter struct {
	handleFunc func(ctx context.Context, req domain.Request) (domain.Response, error)
	last       domain.Request
}

func (m *mockRouter) Handle(ctx context.Context, req domain.Request) (domain.Response, error) {
	m.last = req
	return m.handleFunc(ctx, req)
}

func okRouter() *mockRouter {
	return &mockRouter{handleFunc: func(ctx context.Context, req domain.Request) (domain.Response, error) {
		return service.ContentResponse(domain.ObjectContent{Body: []byte("<h1>hi</h1>"), ContentType: "text/html"}), nil
	}}
}

func TestHandler_ObjectResponse(t *testing.T) {
	router := okRouter()
	handler := NewHandler(router, config.ResponseFormatObject)

	out, err := handler.Invoke(context.Background(), events.ALBTargetGroupRequest{
		Path:    "/",
		Headers: map[string]string{"host": "example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, events.ALBTargetGroupResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/html"},
		Body:       "<h1>hi</h1>",
	}, out)
	assert.Equal(t, domain.Request{Headers: map[string]string{"host": "example.com"}, Path: "/"}, router.last)
}

func TestHandler_TextResponse(t *testing.T) {
	handler := NewHandler(&mockRouter{handleFunc: func(ctx context.Context, req domain.Request) (domain.Response, error) {
		return service.NotFoundResponse(), nil
	}}, config.ResponseFormatText)

	out, err := handler.Invoke(context.Background(), events.ALBTargetGroupRequest{
		Path:    "/",
		Headers: map[string]string{"host": "unknown.com"},
	})
	require.NoError(t, err)

	text, ok := out.(string)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, float64(404), decoded["statusCode"])
	assert.Equal(t, "404 Not Found", decoded["statusDescription"])
	assert.Equal(t, false, decoded["isBase64Encoded"])
	assert.Equal(t, map[string]any{"Content-Type": "text/html"}, decoded["headers"])
	assert.Equal(t, "<p>Not found</p>", decoded["body"])
}

func TestHandler_InvalidInvocation(t *testing.T) {
	handler := NewHandler(&mockRouter{handleFunc: func(ctx context.Context, req domain.Request) (domain.Response, error) {
		return domain.Response{}, zerrors.ErrInvalidInvocation
	}}, config.ResponseFormatObject)

	out, err := handler.Invoke(context.Background(), events.ALBTargetGroupRequest{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "Invalid invocation", out)
}

func TestHandler_ConfigError(t *testing.T) {
	handler := NewHandler(&mockRouter{handleFunc: func(ctx context.Context, req domain.Request) (domain.Response, error) {
		return domain.Response{}, zerrors.ConfigError("file mappings.json", errors.New("no such file"))
	}}, config.ResponseFormatObject)

	out, err := handler.Invoke(context.Background(), events.ALBTargetGroupRequest{
		Path:    "/",
		Headers: map[string]string{"host": "example.com"},
	})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, zerrors.ErrConfig)
}

func TestRequestFromEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    events.ALBTargetGroupRequest
		wantHost string
		wantOK   bool
	}{
		{"single value headers", events.ALBTargetGroupRequest{Headers: map[string]string{"host": "example.com"}}, "example.com", true},
		{"multi value headers", events.ALBTargetGroupRequest{MultiValueHeaders: map[string][]string{"host": {"example.com", "ignored"}}}, "example.com", true},
		{"no headers", events.ALBTargetGroupRequest{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, ok := RequestFromEvent(tt.event).Host()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHost, host)
		})
	}
}

func TestInvokeFromJSONPayload(t *testing.T) {
	// The runtime decodes the raw invocation payload into the event type.
	var event events.ALBTargetGroupRequest
	require.NoError(t, json.Unmarshal([]byte(`{"path": "/logo.png"}`), &event))

	handler := NewHandler(&mockRouter{handleFunc: func(ctx context.Context, req domain.Request) (domain.Response, error) {
		if _, ok := req.Host(); !ok {
			return domain.Response{}, zerrors.ErrInvalidInvocation
		}
		return domain.Response{}, nil
	}}, "")

	out, err := handler.Invoke(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, zerrors.InvalidInvocationSentinel, out)
}
