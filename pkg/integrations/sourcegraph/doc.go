// Package sourcegraph provides a client for the Sourcegraph notebooks
// GraphQL API.
//
//	client := sourcegraph.NewClient("https://sourcegraph.com", token)
//	id, err := client.CreateNotebook(ctx, sourcegraph.NotebookInput{
//	    Title:  "react vs redux",
//	    Public: true,
//	    Blocks: []sourcegraph.BlockInput{sourcegraph.MarkdownBlock("b1", "# react vs redux")},
//	})
//
// [Client.UpsertNotebook] creates when no id is given and updates
// otherwise; an update for a notebook that no longer exists falls back to
// creating a new one. Mutations are retried on transient failures.
package sourcegraph
