package sourcegraph

// BlockType is the kind of a notebook block.
type BlockType string

const (
	BlockMarkdown BlockType = "MARKDOWN"
	BlockQuery    BlockType = "QUERY"
)

// BlockInput is a single notebook block in a create or update mutation.
type BlockInput struct {
	ID            string    `json:"id"`
	Type          BlockType `json:"type"`
	MarkdownInput *string   `json:"markdownInput,omitempty"`
	QueryInput    *string   `json:"queryInput,omitempty"`
}

// MarkdownBlock returns a markdown block with the given id.
func MarkdownBlock(id, markdown string) BlockInput {
	return BlockInput{ID: id, Type: BlockMarkdown, MarkdownInput: &markdown}
}

// QueryBlock returns a search query block with the given id.
func QueryBlock(id, query string) BlockInput {
	return BlockInput{ID: id, Type: BlockQuery, QueryInput: &query}
}

// NotebookInput is the body of a create or update mutation.
// An empty Namespace is filled with the current user's id.
type NotebookInput struct {
	Title     string       `json:"title"`
	Blocks    []BlockInput `json:"blocks"`
	Public    bool         `json:"public"`
	Namespace string       `json:"namespace"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type notebookPayload struct {
	ID string `json:"id"`
}

const currentUserQuery = `query CurrentUser { currentUser { id } }`

const createNotebookMutation = `mutation CreateNotebook($notebook: NotebookInput!) {
  createNotebook(notebook: $notebook) { id }
}`

const updateNotebookMutation = `mutation UpdateNotebook($id: ID!, $notebook: NotebookInput!) {
  updateNotebook(id: $id, notebook: $notebook) { id }
}`
