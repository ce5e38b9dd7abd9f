// Package integrations provides HTTP clients for the remote services
// stacknotes talks to.
//
//   - [npm]: npm registry metadata, used to enumerate dependency pairs and
//     to fill notebook content
//   - [sourcegraph]: the notebooks GraphQL API, the upsert target of the
//     backfill job
//   - [github]: OAuth authorization URLs for the "link GitHub" call to action
//
// # Client Pattern
//
// Every API client embeds [Client], which provides JSON GET/POST with
// default headers, retries for transient failures and an optional response
// cache:
//
//	client, err := npm.NewClient(24 * time.Hour)
//	info, err := client.FetchPackage(ctx, "react", false) // false = use cache
//
// [npm]: github.com/matzehuels/stacknotes/pkg/integrations/npm
// [sourcegraph]: github.com/matzehuels/stacknotes/pkg/integrations/sourcegraph
// [github]: github.com/matzehuels/stacknotes/pkg/integrations/github
package integrations
