package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DailyRecordsSchema = `
	CREATE TABLE IF NOT EXISTS daily_records (
		country VARCHAR NOT NULL,
		date DATE NOT NULL,
		new_cases DOUBLE,
		total_cases DOUBLE,
		new_deaths DOUBLE,
		total_deaths DOUBLE,
		new_vaccinations DOUBLE,
		PRIMARY KEY (country, date)
	);
`

var bootQueries = []string{
	DailyRecordsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

type txKey struct{}

func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
