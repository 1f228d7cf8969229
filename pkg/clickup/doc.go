// Package clickup maps ClickUp resources onto the request dispatcher.
//
// Navigation starts at an API value and narrows through immutable scopes:
//
//	api := clickup.NewAPI(c)
//	it := api.Workspace("9011").Space("901").List("4711").Tasks(clickup.TaskQuery{})
//	for task, err := range it.All(ctx) {
//		...
//	}
//
// Every call is a thin mapping to one endpoint. Listings that the API pages
// (tasks, docs) return a pagination.Iterator; the rest return slices.
// Validation failures match client.ErrConfiguration and are reported before
// any request is sent.
package clickup
