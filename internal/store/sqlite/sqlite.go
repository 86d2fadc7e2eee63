// Package sqlite provides a SQLite-backed implementation of the catalog and
// ordering stores.
//
// WAL mode is enabled on Open so that readers never block the single writer
// connection. We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid
// CGO requirements, making the binary trivial to build and containerise.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nroldan/storefront/internal/catalog"
	"github.com/nroldan/storefront/internal/ordering"

	// Register the pure-Go SQLite driver under the name "sqlite".
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Orders are append-only; the
// seq column records insertion order for listings. Timestamps are RFC3339
// TEXT, the SQLite idiom.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT    PRIMARY KEY,
    name        TEXT    NOT NULL,
    description TEXT    NOT NULL,
    price       REAL    NOT NULL,

    -- The CHECK backs up the in-code floor: a decrement below zero can
    -- never be committed, whatever path tries it.
    stock       INTEGER NOT NULL CHECK (stock >= 0),

    category    TEXT    NOT NULL DEFAULT '',
    created_at  TEXT    NOT NULL,
    updated_at  TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    id           TEXT    NOT NULL UNIQUE,
    customer_id  TEXT    NOT NULL,
    total_amount REAL    NOT NULL,
    discount     REAL    NOT NULL,
    final_amount REAL    NOT NULL,
    status       TEXT    NOT NULL,
    created_at   TEXT    NOT NULL,
    updated_at   TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS order_lines (
    order_id   TEXT    NOT NULL REFERENCES orders(id),
    -- Line position within the order, preserving request order.
    position   INTEGER NOT NULL,
    product_id TEXT    NOT NULL,
    quantity   INTEGER NOT NULL,
    unit_price REAL    NOT NULL,
    PRIMARY KEY (order_id, position)
);
`

// Store is the SQLite implementation of catalog.Store and ordering.Store.
type Store struct {
	db *sql.DB
}

var (
	_ catalog.Store  = (*Store)(nil)
	_ ordering.Store = (*Store)(nil)
)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	store, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir %q: %w", dir, err)
		}
	}

	// The pure-Go driver takes _pragma query parameters. WAL enables
	// concurrent readers; busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection; this also
	// serialises every check-then-mutate sequence at the database level.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) error {
	const q = `
		INSERT INTO products (id, name, description, price, stock, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, category, created_at, updated_at
		FROM   products
		WHERE  id = ?`

	return scanProduct(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	const q = `
		SELECT id, name, description, price, stock, category, created_at, updated_at
		FROM   products
		ORDER  BY rowid`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustStock applies the delta inside a transaction so the floor check and
// the update are atomic even with other connections in play.
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (catalog.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("sqlite: begin adjust stock: %w", err)
	}
	defer tx.Rollback()

	var name string
	var stock int
	err = tx.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = ?`, id).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("sqlite: read stock for %q: %w", id, err)
	}

	if stock+delta < 0 {
		return catalog.Product{}, &catalog.InsufficientStockError{
			Name:      name,
			Available: stock,
			Requested: -delta,
		}
	}

	const upd = `UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, delta, formatTime(nowUTC()), id); err != nil {
		return catalog.Product{}, fmt.Errorf("sqlite: adjust stock for %q: %w", id, err)
	}

	const sel = `
		SELECT id, name, description, price, stock, category, created_at, updated_at
		FROM   products
		WHERE  id = ?`
	p, err := scanProduct(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return catalog.Product{}, err
	}

	if err := tx.Commit(); err != nil {
		return catalog.Product{}, fmt.Errorf("sqlite: commit adjust stock for %q: %w", id, err)
	}
	return p, nil
}

func (s *Store) AppendOrder(ctx context.Context, o ordering.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin append order: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO orders (id, customer_id, total_amount, discount, final_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, q,
		o.ID, o.CustomerID, o.TotalAmount, o.Discount, o.FinalAmount, string(o.Status),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append order %q: %w", o.ID, err)
	}

	const lq = `
		INSERT INTO order_lines (order_id, position, product_id, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?)`

	for i, line := range o.Lines {
		if _, err := tx.ExecContext(ctx, lq, o.ID, i, line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return fmt.Errorf("sqlite: append order line %d of %q: %w", i, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", o.ID, err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (ordering.Order, error) {
	const q = `
		SELECT id, customer_id, total_amount, discount, final_amount, status, created_at, updated_at
		FROM   orders
		WHERE  id = ?`

	o, err := scanOrder(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return ordering.Order{}, err
	}

	o.Lines, err = s.orderLines(ctx, id)
	if err != nil {
		return ordering.Order{}, err
	}
	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]ordering.Order, error) {
	const q = `
		SELECT id, customer_id, total_amount, discount, final_amount, status, created_at, updated_at
		FROM   orders
		ORDER  BY seq`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []ordering.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Lines, err = s.orderLines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) orderLines(ctx context.Context, orderID string) ([]ordering.Line, error) {
	const q = `
		SELECT product_id, quantity, unit_price
		FROM   order_lines
		WHERE  order_id = ?
		ORDER  BY position`

	rows, err := s.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: lines for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var lines []ordering.Line
	for rows.Next() {
		var l ordering.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("sqlite: scan line for order %q: %w", orderID, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (catalog.Product, error) {
	var p catalog.Product
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("sqlite: scan product: %w", err)
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return catalog.Product{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func scanOrder(row scanner) (ordering.Order, error) {
	var o ordering.Order
	var status, createdAt, updatedAt string
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.Discount, &o.FinalAmount, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ordering.Order{}, ordering.ErrOrderNotFound
	}
	if err != nil {
		return ordering.Order{}, fmt.Errorf("sqlite: scan order: %w", err)
	}

	o.Status = ordering.Status(status)
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return ordering.Order{}, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return ordering.Order{}, err
	}
	return o, nil
}
