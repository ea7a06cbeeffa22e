package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate row
	ErrAlreadyExists = errors.New("already exists")
)

// maxItemsPerInsert bounds the rows in one multi-row INSERT so the statement
// stays well under SQLite's bound-parameter limit.
const maxItemsPerInsert = 500

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// classify maps driver constraint errors onto the package sentinels while
// keeping the driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY constraint failed") {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return err
}

// Reference operations

// upsertCustomerWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertCustomerWithQuerier(ctx context.Context, q querier, customer *Customer) error {
	query := `
		INSERT INTO customers (id, name, address, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address
	`
	_, err := q.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Address, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertCustomer(ctx context.Context, customer *Customer) error {
	return s.upsertCustomerWithQuerier(ctx, s.querier(), customer)
}

// upsertProductWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertProductWithQuerier(ctx context.Context, q querier, product *Product) error {
	query := `
		INSERT INTO products (id, name, price, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price
	`
	_, err := q.ExecContext(ctx, query,
		product.ID, product.Name, product.Price.String(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertProduct(ctx context.Context, product *Product) error {
	return s.upsertProductWithQuerier(ctx, s.querier(), product)
}

// Order header operations

// insertOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertOrderWithQuerier(ctx context.Context, q querier, order *Order) error {
	query := `
		INSERT INTO orders (id, customer_id, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.Total.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", classify(err))
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) InsertOrder(ctx context.Context, order *Order) error {
	return s.insertOrderWithQuerier(ctx, s.querier(), order)
}

// updateOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) updateOrderWithQuerier(ctx context.Context, q querier, order *Order) error {
	query := `
		UPDATE orders
		SET customer_id = ?, total = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		order.CustomerID, order.Total.String(), now, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	order.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateOrder(ctx context.Context, order *Order) error {
	return s.updateOrderWithQuerier(ctx, s.querier(), order)
}

const selectOrderColumns = `SELECT id, customer_id, total, created_at, updated_at FROM orders`

// getOrderWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getOrderWithQuerier(ctx context.Context, q querier, orderID string) (*Order, error) {
	query := selectOrderColumns + ` WHERE id = ?`

	var order Order
	var total string
	err := q.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID, &order.CustomerID, &total, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := parseDecimal(total, &order.Total); err != nil {
		return nil, fmt.Errorf("order %s total: %w", order.ID, err)
	}
	return &order, nil
}

func (s *SQLiteStorage) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.getOrderWithQuerier(ctx, s.querier(), orderID)
}

// listOrdersWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listOrdersWithQuerier(ctx context.Context, q querier) ([]*Order, error) {
	query := selectOrderColumns + ` ORDER BY created_at, id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := make([]*Order, 0)
	for rows.Next() {
		var order Order
		var total string
		if err := rows.Scan(&order.ID, &order.CustomerID, &total, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		if err := parseDecimal(total, &order.Total); err != nil {
			return nil, fmt.Errorf("order %s total: %w", order.ID, err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

func (s *SQLiteStorage) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.listOrdersWithQuerier(ctx, s.querier())
}

// countOrdersWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) countOrdersWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (s *SQLiteStorage) CountOrders(ctx context.Context) (int, error) {
	return s.countOrdersWithQuerier(ctx, s.querier())
}

// Order item operations

// insertOrderItemsWithQuerier is the internal implementation that uses a querier.
// Items are written with multi-row INSERT statements.
func (s *SQLiteStorage) insertOrderItemsWithQuerier(ctx context.Context, q querier, items []*OrderItem) error {
	const columns = 7
	for start := 0; start < len(items); start += maxItemsPerInsert {
		end := start + maxItemsPerInsert
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*columns)
		for i, item := range batch {
			placeholders[i] = "(?, ?, ?, ?, ?, ?, ?)"
			args = append(args,
				item.ID, item.OrderID, item.ProductID, item.Name,
				item.Price.String(), item.Quantity, item.Position)
		}

		query := `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity, position)
			VALUES ` + strings.Join(placeholders, ", ")
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert order items: %w", classify(err))
		}
	}
	return nil
}

func (s *SQLiteStorage) InsertOrderItems(ctx context.Context, items []*OrderItem) error {
	return s.insertOrderItemsWithQuerier(ctx, s.querier(), items)
}

// deleteOrderItemsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteOrderItemsWithQuerier(ctx context.Context, q querier, orderID string) (int, error) {
	result, err := q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order items: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *SQLiteStorage) DeleteOrderItems(ctx context.Context, orderID string) (int, error) {
	return s.deleteOrderItemsWithQuerier(ctx, s.querier(), orderID)
}

const selectOrderItemColumns = `SELECT id, order_id, product_id, name, price, quantity, position FROM order_items`

// scanOrderItems reads every row of an order_items query
func scanOrderItems(rows *sql.Rows) ([]*OrderItem, error) {
	items := make([]*OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		var price string
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&price, &item.Quantity, &item.Position,
		)
		if err != nil {
			return nil, err
		}
		if err := parseDecimal(price, &item.Price); err != nil {
			return nil, fmt.Errorf("order item %s price: %w", item.ID, err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// listOrderItemsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listOrderItemsWithQuerier(ctx context.Context, q querier, orderID string) ([]*OrderItem, error) {
	query := selectOrderItemColumns + ` WHERE order_id = ? ORDER BY position`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanOrderItems(rows)
}

func (s *SQLiteStorage) ListOrderItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	return s.listOrderItemsWithQuerier(ctx, s.querier(), orderID)
}

// listAllOrderItemsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listAllOrderItemsWithQuerier(ctx context.Context, q querier) (map[string][]*OrderItem, error) {
	query := selectOrderItemColumns + ` ORDER BY order_id, position`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items, err := scanOrderItems(rows)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[string][]*OrderItem)
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

func (s *SQLiteStorage) ListAllOrderItems(ctx context.Context) (map[string][]*OrderItem, error) {
	return s.listAllOrderItemsWithQuerier(ctx, s.querier())
}

// countOrderItemsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) countOrderItemsWithQuerier(ctx context.Context, q querier, orderID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = ?`, orderID).Scan(&count)
	return count, err
}

func (s *SQLiteStorage) CountOrderItems(ctx context.Context, orderID string) (int, error) {
	return s.countOrderItemsWithQuerier(ctx, s.querier(), orderID)
}

// Transaction methods
// Every operation runs against the transaction querier

func (t *sqliteTx) UpsertCustomer(ctx context.Context, customer *Customer) error {
	return t.storage.upsertCustomerWithQuerier(ctx, t.querier(), customer)
}

func (t *sqliteTx) UpsertProduct(ctx context.Context, product *Product) error {
	return t.storage.upsertProductWithQuerier(ctx, t.querier(), product)
}

func (t *sqliteTx) InsertOrder(ctx context.Context, order *Order) error {
	return t.storage.insertOrderWithQuerier(ctx, t.querier(), order)
}

func (t *sqliteTx) UpdateOrder(ctx context.Context, order *Order) error {
	return t.storage.updateOrderWithQuerier(ctx, t.querier(), order)
}

func (t *sqliteTx) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return t.storage.getOrderWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) ListOrders(ctx context.Context) ([]*Order, error) {
	return t.storage.listOrdersWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) CountOrders(ctx context.Context) (int, error) {
	return t.storage.countOrdersWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) InsertOrderItems(ctx context.Context, items []*OrderItem) error {
	return t.storage.insertOrderItemsWithQuerier(ctx, t.querier(), items)
}

func (t *sqliteTx) DeleteOrderItems(ctx context.Context, orderID string) (int, error) {
	return t.storage.deleteOrderItemsWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) ListOrderItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	return t.storage.listOrderItemsWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) ListAllOrderItems(ctx context.Context) (map[string][]*OrderItem, error) {
	return t.storage.listAllOrderItemsWithQuerier(ctx, t.querier())
}

func (t *sqliteTx) CountOrderItems(ctx context.Context, orderID string) (int, error) {
	return t.storage.countOrderItemsWithQuerier(ctx, t.querier(), orderID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
