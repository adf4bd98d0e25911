// Package service holds the request path of the static host router: the
// mapping store resolving hosts to buckets, the object fetcher reading from
// storage through a bounded cache, and the Router tying both into responses.
//
// Every failure other than a broken mapping configuration collapses into the
// same 404 response; the router has no 5xx outcome.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/zzenonn/zhost/internal/domain"
	zerrors "github.com/zzenonn/zhost/internal/errors"
	"github.com/zzenonn/zhost/internal/metrics"
)

const (
	// IndexPath replaces an empty or root request path.
	IndexPath = "/index.html"

	NotFoundBody              = "<p>Not found</p>"
	NotFoundStatusDescription = "404 Not Found"
)

// HostResolver maps a request host to a bucket identifier.
type HostResolver interface {
	Bucket(ctx context.Context, host string) (string, error)
}

// Fetcher reads an object, returning errors.ErrNotFound when it cannot.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, path string) (domain.ObjectContent, error)
}

// Router turns an invocation request into a response.
type Router struct {
	resolver HostResolver
	fetcher  Fetcher
	metrics  *metrics.Metrics
}

// NewRouter creates a Router.
func NewRouter(resolver HostResolver, fetcher Fetcher, m *metrics.Metrics) *Router {
	return &Router{
		resolver: resolver,
		fetcher:  fetcher,
		metrics:  m,
	}
}

// NormalizePath maps "" and "/" to IndexPath and leaves every other path alone.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return IndexPath
	}
	return path
}

// Handle serves one request. It returns errors.ErrInvalidInvocation when the
// request carries no host header and an errors.ErrConfig error when the
// mapping table cannot be loaded; everything else becomes a response.
func (r *Router) Handle(ctx context.Context, req domain.Request) (domain.Response, error) {
	host, ok := req.Host()
	if !ok {
		r.metrics.ObserveRequest(metrics.OutcomeInvalid)
		return domain.Response{}, zerrors.ErrInvalidInvocation
	}

	path := NormalizePath(req.Path)

	bucket, err := r.resolver.Bucket(ctx, host)
	if err != nil {
		if errors.Is(err, zerrors.ErrConfig) {
			return domain.Response{}, err
		}
		log.Infof("Host not found: %s", host)
		return r.notFound(), nil
	}

	content, err := r.fetcher.Fetch(ctx, bucket, path)
	if err != nil {
		log.Debugf("Returning not found for %s -> %s%s: %v", host, bucket, path, err)
		return r.notFound(), nil
	}

	log.Debugf("Returning content %s -> %s%s", host, bucket, path)
	r.metrics.ObserveRequest(metrics.OutcomeOK)
	return ContentResponse(content), nil
}

func (r *Router) notFound() domain.Response {
	r.metrics.ObserveRequest(metrics.OutcomeNotFound)
	return NotFoundResponse()
}

// IsBinaryContentType reports whether a body of this type is sent base64 encoded.
func IsBinaryContentType(contentType string) bool {
	return strings.Contains(contentType, "image/")
}

// ContentResponse builds the 200 response for a fetched object. Image bodies
// are base64 encoded and flagged; everything else is passed as text.
func ContentResponse(content domain.ObjectContent) domain.Response {
	binary := IsBinaryContentType(content.ContentType)

	body := string(content.Body)
	if binary {
		body = base64.StdEncoding.EncodeToString(content.Body)
	}

	return domain.Response{
		StatusCode:      http.StatusOK,
		IsBase64Encoded: binary,
		Headers: map[string]string{
			"Content-Type": content.ContentType,
		},
		Body: body,
	}
}

// NotFoundResponse builds the 404 response shared by unmapped hosts and missing objects.
func NotFoundResponse() domain.Response {
	return domain.Response{
		StatusCode:        http.StatusNotFound,
		StatusDescription: NotFoundStatusDescription,
		IsBase64Encoded:   false,
		Headers: map[string]string{
			"Content-Type": "text/html",
		},
		Body: NotFoundBody,
	}
}
