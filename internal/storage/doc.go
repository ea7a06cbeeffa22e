// Package storage provides SQLite-based persistence for orders and the
// rows they reference.
//
// The storage layer manages:
//   - Customers and products referenced by orders
//   - Order headers with their stored total
//   - Order items, kept in insertion order via a position column
//
// Storage works on flat row types. Mapping between rows and the order
// aggregate lives in the repository package.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migration versions
//   - customers: Customer id, name and address
//   - products: Product id, name and price
//   - orders: Order header (customer, total, timestamps)
//   - order_items: Items keyed by (order_id, id), cascading with their order
//
// Foreign keys are enforced on every connection. Decimal amounts are stored
// as TEXT so prices and totals round-trip exactly.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("orders.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.UpsertCustomer(ctx, &storage.Customer{ID: "1234", Name: "Customer 1"})
//
//	order, err := db.GetOrder(ctx, "123")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // no such order
//	}
//
// # Transactions
//
// Use transactions for atomic operations. The pool holds a single
// connection, so every statement issued while a transaction is open must go
// through the transaction handle:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if _, err := tx.DeleteOrderItems(ctx, order.ID); err != nil {
//	    return err
//	}
//	if err := tx.InsertOrderItems(ctx, items); err != nil {
//	    return err
//	}
//	if err := tx.UpdateOrder(ctx, order); err != nil {
//	    return err
//	}
//
//	return tx.Commit()
//
// Nested transactions are not supported.
//
// # Errors
//
// ErrNotFound is returned when a requested row does not exist, including
// updates that match no row. ErrAlreadyExists wraps primary key and unique
// violations; the driver error stays in the chain. Foreign key violations
// are returned as plain driver errors.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// # Migrations
//
// Schema changes are versioned with semantic versions and applied by
// NewSQLiteStorage. Each migration commits together with its
// schema_version record. RollbackMigration undoes the highest applied
// version.
package storage
