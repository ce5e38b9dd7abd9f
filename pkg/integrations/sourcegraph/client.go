package sourcegraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	stackerrors "github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/httputil"
	"github.com/matzehuels/stacknotes/pkg/integrations"
)

// DefaultURL is the public Sourcegraph instance.
const DefaultURL = "https://sourcegraph.com"

// ErrNotebookNotFound is returned when an update targets a missing notebook.
var ErrNotebookNotFound = errors.New("notebook not found")

// Client talks to a Sourcegraph instance's GraphQL endpoint.
type Client struct {
	*integrations.Client
	baseURL string

	mu        sync.Mutex
	namespace string
}

// NewClient creates a client for baseURL authenticated with an access token.
// Responses are not cached: every call is a mutation or identity lookup.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	headers := map[string]string{"Accept": "application/json"}
	if token != "" {
		headers["Authorization"] = "token " + token
	}
	return &Client{
		Client:  integrations.NewClient(nil, headers),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the instance URL.
func (c *Client) BaseURL() string { return c.baseURL }

// NotebookURL returns the web URL of a notebook.
func (c *Client) NotebookURL(id string) string {
	return c.baseURL + "/notebooks/" + id
}

// CurrentUserID returns the GraphQL id of the authenticated user.
// The value is fetched once and remembered.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.namespace != "" {
		return c.namespace, nil
	}

	var data struct {
		CurrentUser *struct {
			ID string `json:"id"`
		} `json:"currentUser"`
	}
	if err := c.do(ctx, currentUserQuery, nil, &data); err != nil {
		return "", err
	}
	if data.CurrentUser == nil {
		return "", stackerrors.New(stackerrors.ErrCodeUnauthorized, "sourcegraph: not signed in (missing or invalid access token)")
	}
	c.namespace = data.CurrentUser.ID
	return c.namespace, nil
}

// CreateNotebook creates a notebook and returns its id.
func (c *Client) CreateNotebook(ctx context.Context, nb NotebookInput) (string, error) {
	if err := c.fillNamespace(ctx, &nb); err != nil {
		return "", err
	}
	var data struct {
		CreateNotebook notebookPayload `json:"createNotebook"`
	}
	if err := c.send(ctx, createNotebookMutation, map[string]any{"notebook": nb}, &data, false); err != nil {
		return "", err
	}
	return data.CreateNotebook.ID, nil
}

// UpdateNotebook replaces the notebook id with nb and returns its id.
func (c *Client) UpdateNotebook(ctx context.Context, id string, nb NotebookInput) (string, error) {
	if err := c.fillNamespace(ctx, &nb); err != nil {
		return "", err
	}
	var data struct {
		UpdateNotebook notebookPayload `json:"updateNotebook"`
	}
	if err := c.do(ctx, updateNotebookMutation, map[string]any{"id": id, "notebook": nb}, &data); err != nil {
		return "", err
	}
	return data.UpdateNotebook.ID, nil
}

// UpsertNotebook updates *existing when non-nil and creates otherwise.
func (c *Client) UpsertNotebook(ctx context.Context, existing *string, nb NotebookInput) (string, error) {
	if existing == nil || *existing == "" {
		return c.CreateNotebook(ctx, nb)
	}
	id, err := c.UpdateNotebook(ctx, *existing, nb)
	if errors.Is(err, ErrNotebookNotFound) {
		return c.CreateNotebook(ctx, nb)
	}
	return id, err
}

func (c *Client) fillNamespace(ctx context.Context, nb *NotebookInput) error {
	if nb.Namespace != "" {
		return nil
	}
	ns, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	nb.Namespace = ns
	return nil
}

// do runs a GraphQL operation and decodes its data into out.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	return c.send(ctx, query, vars, out, true)
}

// send is do with control over retries. A non-idempotent operation is only
// retried on 429, since a 5xx or dropped connection may follow a mutation
// that already ran.
func (c *Client) send(ctx context.Context, query string, vars map[string]any, out any, idempotent bool) error {
	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	err := httputil.RetryWithBackoff(ctx, func() error {
		err := c.PostJSON(ctx, c.baseURL+"/.api/graphql", graphQLRequest{Query: query, Variables: vars}, &resp)
		var re *httputil.RetryableError
		if !idempotent && !errors.Is(err, integrations.ErrRateLimited) && errors.As(err, &re) {
			return re.Err
		}
		return err
	})
	if err != nil {
		if errors.Is(err, integrations.ErrUnauthorized) {
			return stackerrors.Wrap(stackerrors.ErrCodeUnauthorized, err, "sourcegraph request rejected")
		}
		return stackerrors.Wrap(stackerrors.ErrCodeNetwork, err, "sourcegraph request failed")
	}
	if len(resp.Errors) > 0 {
		return graphQLErrors(resp.Errors)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return stackerrors.New(stackerrors.ErrCodeUpstream, "sourcegraph returned no data")
	}
	return json.Unmarshal(resp.Data, out)
}

func graphQLErrors(errs []graphQLError) error {
	msgs := make([]string, len(errs))
	notFound := false
	for i, e := range errs {
		msgs[i] = e.Message
		if strings.Contains(strings.ToLower(e.Message), "not found") {
			notFound = true
		}
	}
	msg := strings.Join(msgs, "; ")
	if notFound {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, msg)
	}
	return stackerrors.New(stackerrors.ErrCodeUpstream, "sourcegraph: %s", msg)
}
