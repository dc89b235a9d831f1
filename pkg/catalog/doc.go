// Package catalog implements catalog browsing over products.
//
// Service.Query is the read path. It accepts free-form filter and order text,
// checks it against ProductSchema, always restricts results to active
// products, and returns a deterministic page with the total match count:
//
//	svc := catalog.NewService(catalog.Config{
//		Store:  store,
//		Cache:  results,
//		Logger: logger,
//	})
//
//	page, err := svc.Query(ctx, catalog.Request{
//		Filter:   `price > 10 and currency == "USD"`,
//		OrderBy:  "price desc",
//		Page:     1,
//		PageSize: 20,
//	})
//
// Errors:
//
//   - *filter.ParseError: the filter or order text is invalid (client error)
//   - *StoreError: the entity store failed (server error)
//
// Result cache failures never surface; the page is recomputed instead.
//
// Ordering always ends with "id asc" so that pages do not overlap or skip
// products when sort values tie.
//
// Admin covers the write side: creating categories and products with the
// catalog's validation rules.
package catalog
