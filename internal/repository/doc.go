// Package repository persists order aggregates.
//
// Repository maps an order onto the storage rows and keeps every write
// atomic:
//
//   - Create inserts the header, then all items, in one transaction.
//   - Update deletes the stored items, bulk-inserts the current ones and
//     rewrites the header, in one transaction. Updating twice never
//     duplicates items.
//   - Find and FindAll read from a single transaction and rebuild
//     aggregates through types.NewOrder, so loaded orders satisfy the same
//     invariants as new ones.
//
// A missing order is reported as ErrOrderNotFound, which wraps
// storage.ErrNotFound and is distinct from any other storage failure.
//
// Cached wraps any OrderRepository with an LRU of recently used orders:
//
//	repo, err := repository.NewCached(repository.New(store), 1024)
//	if err != nil {
//	    return err
//	}
//	order, err := repo.Find(ctx, "123")
package repository
