package schema

import (
	"context"
	"database/sql"
	"fmt"
)

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		inventory INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products (id),
		quantity INTEGER NOT NULL,
		total_amount NUMERIC(10,2) NOT NULL,
		sale_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		location TEXT NOT NULL,
		joined_date DATE NOT NULL
	)`,
}

// Bootstrap creates the tables and loads the demo dataset if the tables are
// empty. Safe to run on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range createStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if err := seedProducts(ctx, db); err != nil {
		return err
	}
	if err := seedSales(ctx, db); err != nil {
		return err
	}
	return seedCustomers(ctx, db)
}

func seedProducts(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "products")
	if err != nil || !empty {
		return err
	}

	products := []struct {
		name      string
		category  string
		price     float64
		inventory int
	}{
		{"Laptop", "Electronics", 1200.00, 50},
		{"Smartphone", "Electronics", 800.00, 100},
		{"Headphones", "Electronics", 150.00, 200},
		{"T-shirt", "Clothing", 25.00, 500},
		{"Jeans", "Clothing", 60.00, 300},
	}

	for _, p := range products {
		_, err := db.ExecContext(ctx,
			`INSERT INTO products (name, category, price, inventory) VALUES ($1, $2, $3, $4)`,
			p.name, p.category, p.price, p.inventory,
		)
		if err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	return nil
}

func seedSales(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "sales")
	if err != nil || !empty {
		return err
	}

	sales := []struct {
		productID int
		quantity  int
		total     float64
		date      string
	}{
		{1, 5, 6000.00, "2025-01-15"},
		{2, 10, 8000.00, "2025-01-20"},
		{3, 15, 2250.00, "2025-02-01"},
		{4, 20, 500.00, "2025-02-10"},
		{5, 10, 600.00, "2025-02-15"},
		{1, 3, 3600.00, "2025-02-20"},
		{2, 5, 4000.00, "2025-03-01"},
		{3, 8, 1200.00, "2025-03-10"},
		{4, 15, 375.00, "2025-03-15"},
		{5, 12, 720.00, "2025-03-20"},
	}

	for _, s := range sales {
		_, err := db.ExecContext(ctx,
			`INSERT INTO sales (product_id, quantity, total_amount, sale_date) VALUES ($1, $2, $3, $4)`,
			s.productID, s.quantity, s.total, s.date,
		)
		if err != nil {
			return fmt.Errorf("seed sales: %w", err)
		}
	}
	return nil
}

func seedCustomers(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "customers")
	if err != nil || !empty {
		return err
	}

	customers := []struct {
		name     string
		email    string
		location string
		joined   string
	}{
		{"John Doe", "john@example.com", "New York", "2024-06-15"},
		{"Jane Smith", "jane@example.com", "Los Angeles", "2024-07-20"},
		{"Robert Johnson", "robert@example.com", "Chicago", "2024-08-10"},
		{"Maria Garcia", "maria@example.com", "Miami", "2024-09-05"},
		{"James Wilson", "james@example.com", "Seattle", "2024-10-15"},
	}

	for _, c := range customers {
		_, err := db.ExecContext(ctx,
			`INSERT INTO customers (name, email, location, joined_date) VALUES ($1, $2, $3, $4)`,
			c.name, c.email, c.location, c.joined,
		)
		if err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}
	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return count == 0, nil
}
