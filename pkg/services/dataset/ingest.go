package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb/records"
	"github.com/rs/zerolog"
)

const defaultBatchSize = 5000

// Ingestor writes loaded records into the store in transactional batches.
// It runs synchronously at startup; Progress lets callers report on large
// files while the load runs.
type Ingestor struct {
	db        *sql.DB
	store     records.Store
	batchSize int
	progress  chan Progress
}

type Progress struct {
	Loaded int64
	Total  int64
}

func NewIngestor(db *sql.DB, recordStore records.Store) *Ingestor {
	return &Ingestor{
		db:        db,
		store:     recordStore,
		batchSize: defaultBatchSize,
		progress:  make(chan Progress, 100),
	}
}

func (i *Ingestor) Progress() <-chan Progress {
	return i.progress
}

func (i *Ingestor) Run(ctx context.Context, recs []store.DailyRecord) error {
	logger := zerolog.Ctx(ctx)
	defer close(i.progress)

	total := int64(len(recs))
	loaded := int64(0)

	for start := 0; start < len(recs); start += i.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := start + i.batchSize
		if end > len(recs) {
			end = len(recs)
		}
		batch := recs[start:end]

		tx, err := i.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin ingest transaction: %w", err)
		}

		ctxWithTx := duckdb.WithTransaction(ctx, tx)
		if err := i.store.Add(ctxWithTx, batch); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("ingest batch at %d: %w", start, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit ingest batch at %d: %w", start, err)
		}

		loaded += int64(len(batch))
		select {
		case i.progress <- Progress{Loaded: loaded, Total: total}:
		default:
		}
	}

	logger.Info().Int64("records", loaded).Msg("dataset ingested")
	return nil
}
