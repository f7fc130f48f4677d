package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// ServiceProxy forwards requests to the order core service.
type ServiceProxy struct {
	baseURL string
	client  *http.Client
}

func NewServiceProxy(baseURL string, client *http.Client) *ServiceProxy {
	return &ServiceProxy{
		baseURL: baseURL,
		client:  client,
	}
}

// Forward replays the incoming request against the upstream service. When
// body is non-nil it replaces the original request body (the handler has
// already consumed it during validation).
func (p *ServiceProxy) Forward(ctx context.Context, r *http.Request, path string, body []byte) (*http.Response, error) {
	var reader io.Reader = r.Body
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return p.client.Do(req)
}
