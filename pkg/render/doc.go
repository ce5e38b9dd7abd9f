// Package render groups the HTML views served by stacknotes.
//
//   - [search] renders repository search matches
//   - [terms] renders the usage terms and FAQ
//   - [cta] renders the link-GitHub call to action for a session
//
// Each view is a plain function of its inputs; none of them reads global
// state, so the server passes the session and location in explicitly.
package render
