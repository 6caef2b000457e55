package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/tasklio/tasklio-go/internal/core/domain"
)

// clientVersion is sent as a diagnostic header on every request.
const clientVersion = "tasklio-go/0.3.0"

// newRequest assembles a single outbound request from its parts. The joined
// URL is validated here, before any network I/O is attempted; a malformed
// endpoint fails with KindInvalidEndpoint.
func newRequest(ctx context.Context, baseURL, endpoint, method string, body []byte, token string) (*http.Request, error) {
	raw := strings.TrimSuffix(baseURL, "/") + endpoint
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, domain.NewError(domain.KindInvalidEndpoint, fmt.Sprintf("invalid endpoint %q", raw))
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidEndpoint, fmt.Sprintf("invalid endpoint %q", raw))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("X-Client-Version", clientVersion)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}
