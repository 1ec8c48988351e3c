// Package schema exposes the queryable table layout and bootstraps the demo
// dataset.
package schema

import (
	"context"
	"database/sql"

	"nlquery/internal/models"
)

// Inspector reads table layouts from the database catalog.
type Inspector struct {
	db *sql.DB
}

func NewInspector(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

const columnsQuery = `
	SELECT table_name, column_name, data_type, is_nullable
	FROM information_schema.columns
	WHERE table_schema = 'public'
	  AND table_name IN ('products', 'sales', 'customers', 'users')
	ORDER BY table_name, ordinal_position
`

// Tables returns the schema of every queryable table.
func (i *Inspector) Tables(ctx context.Context) ([]models.TableSchema, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.TableSchema

	for rows.Next() {
		var tableName, columnName, dataType, isNullable string
		if err := rows.Scan(&tableName, &columnName, &dataType, &isNullable); err != nil {
			return nil, err
		}

		if len(tables) == 0 || tables[len(tables)-1].Name != tableName {
			tables = append(tables, models.TableSchema{Name: tableName})
		}

		last := len(tables) - 1
		tables[last].Columns = append(tables[last].Columns, models.ColumnSchema{
			Name:     columnName,
			DataType: dataType,
			Nullable: isNullable == "YES",
		})
	}

	return tables, rows.Err()
}
