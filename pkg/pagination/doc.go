// Package pagination fetches every page of a paginated statistics
// endpoint in one concurrent burst.
//
// The endpoint reports its page count in pagination.pages. This package
// fetches the endpoint once to read that count, then requests pages
// 1..N all at once and waits for every one of them.
//
// Example usage:
//
//	config := pagination.DefaultConfig()
//	fetcher := pagination.NewBatchFetcher(espnClient, config)
//	pages, err := fetcher.FetchAllPages(ctx, espn.DefaultBaseURL)
//
// The batch fetcher:
//   - Fetches the unpaged endpoint to determine total pages
//   - Starts one task per page with no concurrency cap by default
//   - Returns pages ordered by page number, whatever order they finished in
//   - Fails fast: the first error cancels the remaining requests and
//     nothing is returned
package pagination
