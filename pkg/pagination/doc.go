// Package pagination pre-warms the catalog result cache.
//
// A warm run queries page 1 of the unfiltered, default-ordered catalog to
// learn the total page count and then queries pages 2..N on a bounded
// ants worker pool. Every query goes through catalog.Service, so each
// computed page lands in the result cache under the same key a client
// request for that page would derive.
//
// Example usage:
//
//	warmer := pagination.NewWarmer(service, pagination.Config{Pages: 5}, logger)
//	stats, err := warmer.Warm(ctx)
//
// Failed pages are logged and counted; warming never blocks serving.
package pagination
