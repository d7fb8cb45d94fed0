package sqlstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/repository"
)

func init() {
	// sqlx does not know the modernc driver name.
	sqlx.BindDriver(string(SQLite), sqlx.QUESTION)
}

type orderRow struct {
	ID       string `db:"id"`
	Currency string `db:"currency"`
	Version  int    `db:"version"`
}

type itemRow struct {
	LineNo      int             `db:"line_no"`
	ProductKind string          `db:"product_kind"`
	ProductRef  string          `db:"product_ref"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Currency    string          `db:"currency"`
	Quantity    int             `db:"quantity"`
}

type orderRepository struct {
	db   *sqlx.DB
	opts []entity.OrderOption
}

// NewOrderRepository creates a new OrderRepository backed by a SQL database.
func NewOrderRepository(db *sqlx.DB, opts ...entity.OrderOption) repository.OrderRepository {
	return &orderRepository{db: db, opts: opts}
}

func (r *orderRepository) FindByID(ctx context.Context, id entity.OrderID) (*entity.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT id, currency, version FROM orders WHERE id = ?"), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order")
	}

	var rows []itemRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(
		"SELECT line_no, product_kind, product_ref, unit_price, currency, quantity FROM order_items WHERE order_id = ? ORDER BY line_no",
	), id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order items")
	}

	items := make([]entity.OrderItem, 0, len(rows))
	for _, ir := range rows {
		item, err := ir.toItem()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode line %d of order %s", ir.LineNo, id)
		}
		items = append(items, item)
	}
	return entity.RestoreOrder(id, entity.Currency(row.Currency), items, row.Version, r.opts...)
}

func (ir itemRow) toItem() (entity.OrderItem, error) {
	product, err := entity.ParseProduct(entity.ProductKind(ir.ProductKind), ir.ProductRef)
	if err != nil {
		return entity.OrderItem{}, err
	}
	price, err := entity.NewMoney(ir.UnitPrice, entity.Currency(ir.Currency))
	if err != nil {
		return entity.OrderItem{}, err
	}
	return entity.NewOrderItem(product, price, ir.Quantity)
}

func (r *orderRepository) Save(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	id := order.ID().String()
	var current int
	err = tx.GetContext(ctx, &current, tx.Rebind("SELECT version FROM orders WHERE id = ?"), id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case err != nil:
		return errors.Wrap(err, "failed to read order version")
	}
	if current != order.GetVersion() {
		return repository.ErrConcurrentUpdate
	}

	next := current + 1
	if current == 0 {
		_, err = tx.ExecContext(ctx, tx.Rebind("INSERT INTO orders (id, currency, version) VALUES (?, ?, ?)"),
			id, order.Currency().String(), next)
		if err != nil {
			return errors.Wrap(err, "failed to insert order")
		}
	} else {
		res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE orders SET currency = ?, version = ? WHERE id = ? AND version = ?"),
			order.Currency().String(), next, id, current)
		if err != nil {
			return errors.Wrap(err, "failed to update order")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to read affected rows")
		}
		if n == 0 {
			return repository.ErrConcurrentUpdate
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM order_items WHERE order_id = ?"), id); err != nil {
		return errors.Wrap(err, "failed to clear order items")
	}
	for i, item := range order.Items() {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO order_items (order_id, line_no, product_kind, product_ref, unit_price, currency, quantity) VALUES (?, ?, ?, ?, ?, ?, ?)",
		), id, i+1, string(item.Product().Kind()), item.Product().String(),
			item.UnitPrice().Amount(), item.UnitPrice().Currency().String(), item.Quantity())
		if err != nil {
			return errors.Wrap(err, "failed to insert order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	order.SetVersion(next)
	return nil
}

func (r *orderRepository) Exists(ctx context.Context, id entity.OrderID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM orders WHERE id = ?"), id.String())
	if err != nil {
		return false, errors.Wrap(err, "failed to count orders")
	}
	return count > 0, nil
}
