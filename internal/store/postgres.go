package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/models"
)

// PostgresStore reads the catalog from the tables created by migrations/.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const vendorColumns = `id, name, email, phone, address, status, product_count, order_count, join_date`

func scanVendor(row interface{ Scan(...any) error }, v *models.Vendor) error {
	return row.Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&v.Phone,
		&v.Address,
		&v.Status,
		&v.ProductCount,
		&v.OrderCount,
		&v.JoinDate,
	)
}

func (s *PostgresStore) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		if err := scanVendor(rows, &v); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return vendors, nil
}

func (s *PostgresStore) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	v := &models.Vendor{}
	err := scanVendor(s.db.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id), v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrVendorNotFound
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	err := database.WithTransaction(ctx, s.db, database.ReadOnlyTxOptions(), func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, name, category, sku, description FROM products ORDER BY id`)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		defer rows.Close()

		index := make(map[string]int)
		for rows.Next() {
			var p models.Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.SKU, &p.Description); err != nil {
				return fmt.Errorf("scan product: %w", err)
			}
			index[p.ID] = len(products)
			products = append(products, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows error: %w", err)
		}

		offers, err := tx.QueryContext(ctx,
			`SELECT product_id, vendor_id, price, stock
			 FROM vendor_offers
			 ORDER BY product_id, vendor_id`)
		if err != nil {
			return fmt.Errorf("list offers: %w", err)
		}
		defer offers.Close()

		for offers.Next() {
			var productID string
			var o models.VendorOffer
			if err := offers.Scan(&productID, &o.VendorID, &o.Price, &o.Stock); err != nil {
				return fmt.Errorf("scan offer: %w", err)
			}
			if i, ok := index[productID]; ok {
				products[i].Offers = append(products[i].Offers, o)
			}
		}
		return offers.Err()
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (s *PostgresStore) VendorCatalog(ctx context.Context, vendorID string) ([]CatalogItem, error) {
	if _, err := s.GetVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, o.price, o.stock
		 FROM vendor_offers o
		 JOIN products p ON p.id = o.product_id
		 WHERE o.vendor_id = $1
		 ORDER BY p.id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendor catalog: %w", err)
	}
	defer rows.Close()

	var items []CatalogItem
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Price, &item.Stock); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

const orderQuery = `
	SELECT o.id, o.vendor_id, v.name, o.order_date, o.expected_delivery,
	       o.status, o.priority, o.notes, o.version
	FROM purchase_orders o
	JOIN vendors v ON v.id = o.vendor_id`

func scanOrder(row interface{ Scan(...any) error }, o *models.PurchaseOrder) error {
	return row.Scan(
		&o.ID,
		&o.VendorID,
		&o.VendorName,
		&o.OrderDate,
		&o.ExpectedDelivery,
		&o.Status,
		&o.Priority,
		&o.Notes,
		&o.Version,
	)
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder

	err := database.WithTransaction(ctx, s.db, database.ReadOnlyTxOptions(), func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, orderQuery+` ORDER BY o.id`)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		defer rows.Close()

		index := make(map[string]int)
		for rows.Next() {
			var o models.PurchaseOrder
			if err := scanOrder(rows, &o); err != nil {
				return fmt.Errorf("scan order: %w", err)
			}
			index[o.ID] = len(orders)
			orders = append(orders, o)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows error: %w", err)
		}

		items, err := tx.QueryContext(ctx,
			`SELECT order_id, product_id, product_name, quantity, unit_price
			 FROM purchase_order_items
			 ORDER BY order_id, line_no`)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		defer items.Close()

		for items.Next() {
			var orderID string
			var item models.OrderItem
			if err := items.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
				return fmt.Errorf("scan order item: %w", err)
			}
			if i, ok := index[orderID]; ok {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
		return items.Err()
	})
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Recompute()
	}
	return orders, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return getOrder(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getOrder(ctx context.Context, q queryer, id string) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}

	if err := scanOrder(q.QueryRowContext(ctx, orderQuery+` WHERE o.id = $1`, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT product_id, product_name, quantity, unit_price
		 FROM purchase_order_items
		 WHERE order_id = $1
		 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Recompute()
	return order, nil
}

// AdvanceOrder moves an order one status forward. The row lock and the
// version predicate together reject a transition computed from a stale read.
func (s *PostgresStore) AdvanceOrder(ctx context.Context, id string, to models.OrderStatus) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder

	err := database.WithRetry(ctx, s.db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		var current models.OrderStatus
		var version int
		err := tx.QueryRowContext(ctx,
			`SELECT status, version FROM purchase_orders WHERE id = $1 FOR UPDATE`,
			id).Scan(&current, &version)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order %s: %w", id, err)
		}

		if err := models.CheckTransition(current, to); err != nil {
			return fmt.Errorf("advance order %s: %w", id, err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE purchase_orders
			 SET status = $1, version = version + 1, updated_at = NOW()
			 WHERE id = $2 AND version = $3`,
			to, id, version)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return database.ErrOptimisticLockFailed
		}

		order, err = getOrder(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
