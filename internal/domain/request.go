package domain

import "encoding/base64"

// Request is the part of an invocation payload the router reads.
type Request struct {
	Headers map[string]string `json:"headers"`
	Path    string            `json:"path"`
}

// Host returns the host header and whether it was present at all.
func (r Request) Host() (string, bool) {
	if r.Headers == nil {
		return "", false
	}
	host, ok := r.Headers["host"]
	return host, ok
}

// Response is the HTTP-shaped result handed back to the invocation runtime.
type Response struct {
	StatusCode        int               `json:"statusCode"`
	StatusDescription string            `json:"statusDescription,omitempty"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
	Headers           map[string]string `json:"headers"`
	Body              string            `json:"body"`
}

// ContentType returns the Content-Type header of the response.
func (r Response) ContentType() string {
	return r.Headers["Content-Type"]
}

// DecodedBody returns the body bytes, undoing the base64 step for binary bodies.
func (r Response) DecodedBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	return base64.StdEncoding.DecodeString(r.Body)
}
