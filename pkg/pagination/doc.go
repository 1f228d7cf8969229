// Package pagination presents multi-page ClickUp listings as one lazy sequence.
//
// An Iterator is built from a FetchFunc (a closure over the client and the
// fixed parameters of a listing call) and the starting page parameters. Each
// advance hands out the next buffered item; when the buffer runs dry and the
// last page signalled more data, exactly one further fetch is made with the
// parameters that page supplied. Once a page reports no more data the
// iterator never fetches again.
//
// ClickUp uses two continuation styles, both expressed through Page:
//
//	// page index + "last_page" (v2 task listings)
//	return pagination.NextPageNumber(resp.Tasks, p, !resp.LastPage), nil
//
//	// opaque cursor (v3 listings)
//	return pagination.NextCursor(resp.Docs, resp.NextCursor), nil
//
// Example usage:
//
//	it := pagination.New(fetchTasks, pagination.Params{})
//	for it.Next(ctx) {
//		task := it.Item()
//		...
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
//
// or with range-over-func:
//
//	for task, err := range it.All(ctx) {
//		if err != nil {
//			return err
//		}
//		...
//	}
//
// Page fetches for one iterator are strictly sequential, since the next
// parameters depend on the previous response. An iterator is not restartable;
// build a new one to read from the start again.
//
// Offset and cursor pagination against a live collection give no snapshot
// isolation: items created or deleted between fetches may be skipped or seen
// twice, and the iterator does not deduplicate.
package pagination
