// Package crud manufactures state-management modules for REST-like
// resources.
//
// A Module bundles a reactive state container, asynchronous CRUD actions
// mapped to HTTP verbs, synchronous mutation reducers, and derived-state
// getters for a single resource:
//
//	articles, err := crud.New(crud.Config[Article]{Resource: "articles"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	items, err := articles.FetchList(ctx)   // GET /api/articles
//	one, err := articles.FetchSingle(ctx, 3) // GET /api/articles/3
//	created, err := articles.Create(ctx, Article{Title: "hello"})
//
// # State
//
// Each module owns a State[T] holding a normalized entity map keyed by
// stringified id, an ordered List of ids from the last fetched
// collection, an ordered Singles list of individually fetched ids, and
// per-operation request status. State is read through snapshots:
//
//	for _, a := range articles.List() {
//	    fmt.Println(a.Title)
//	}
//	if articles.IsLoading() { ... }
//
// # Actions
//
// Every action synchronously applies its start mutation before any
// network work begins, issues exactly one HTTP call, and applies the
// success or error mutation when the call settles. Request errors are
// recorded in state and returned, never swallowed. Concurrent
// invocations of the same action are not serialized; their mutations
// apply in settlement order.
//
// # Customization
//
// Config enumerates every recognized option: the id attribute, URL
// root or URL-computing function, an operation allow-list, response and
// error parsers, lifecycle hooks, and name-keyed action/mutation/getter
// overrides that are merged over the generated tables and take
// precedence on collision.
//
// # Thread Safety
//
// Mutations run under the store's write lock and never interleave.
// Getters and hooks operate on snapshots, so readers never observe a
// half-applied mutation.
package crud
