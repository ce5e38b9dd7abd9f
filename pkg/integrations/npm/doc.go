// Package npm provides an HTTP client for the npm registry API.
//
// [Client.FetchPackage] returns the version tagged "latest" in dist-tags
// with its runtime dependencies (sorted), description, license and
// normalized repository URL. devDependencies and peerDependencies are not
// included.
//
//	client, err := npm.NewClient(24 * time.Hour)
//	info, err := client.FetchPackage(ctx, "react", false)
//	fmt.Println(info.Name, info.Version, info.Dependencies)
//
// Responses are cached under the "npm:" namespace; pass refresh=true to
// bypass the cache.
package npm
