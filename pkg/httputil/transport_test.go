package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stacknotes/pkg/observability"
)

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  int
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) { h.requests++ }
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, code int, _ time.Duration) {
	h.responses = append(h.responses, code)
}

func TestTransport(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	client := NewClient(5 * time.Second)
	resp, err := client.Get(server.URL + "/react")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(gotUA, "stacknotes/") {
		t.Errorf("User-Agent = %q, want stacknotes/ prefix", gotUA)
	}
	if hooks.requests != 1 {
		t.Errorf("OnRequest calls = %d, want 1", hooks.requests)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != http.StatusTeapot {
		t.Errorf("OnResponse codes = %v, want [418]", hooks.responses)
	}
}

func TestTransportKeepsExplicitUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("User-Agent", "custom/1.0")
	resp, err := NewClient(5 * time.Second).Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotUA != "custom/1.0" {
		t.Errorf("User-Agent = %q, want custom/1.0", gotUA)
	}
}
