package dataset

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb/records"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestor_Run(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	recordStore, err := records.NewStore(db)
	require.NoError(t, err)

	var recs []store.DailyRecord
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		recs = append(recs, store.DailyRecord{
			Country:  "Italy",
			Date:     base.AddDate(0, 0, i),
			NewCases: float64(i),
		})
	}

	ingestor := NewIngestor(db, recordStore)
	ingestor.batchSize = 5 // force multiple batches

	require.NoError(t, ingestor.Run(context.Background(), recs))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM daily_records").Scan(&count))
	assert.Equal(t, 12, count)

	var sawProgress bool
	for p := range ingestor.Progress() {
		sawProgress = true
		assert.LessOrEqual(t, p.Loaded, p.Total)
	}
	assert.True(t, sawProgress)
}
