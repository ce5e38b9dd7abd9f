package events

import (
	"context"

	"github.com/matzehuels/stacknotes/pkg/integrations"
)

// HTTPForwarder posts each event as JSON to a collector endpoint.
type HTTPForwarder struct {
	client *integrations.Client
	url    string
}

// NewHTTPForwarder returns a forwarder for url, sending the given headers
// (for example an Authorization token) with every request.
func NewHTTPForwarder(url string, headers map[string]string) *HTTPForwarder {
	return &HTTPForwarder{client: integrations.NewClient(nil, headers), url: url}
}

func (f *HTTPForwarder) LogEventForPage(ctx context.Context, event, page string, props map[string]string) error {
	return f.client.PostJSON(ctx, f.url, NewEvent(event, page, props), nil)
}
