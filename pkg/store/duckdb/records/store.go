package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
	"github.com/de-tools/covid-atlas/pkg/store/duckdb"
)

// columnFor whitelists metric-to-column mapping; metric names are validated
// upstream but never interpolated into SQL without passing through here.
var columnFor = map[domain.Metric]string{
	domain.MetricNewCases:        "new_cases",
	domain.MetricTotalCases:      "total_cases",
	domain.MetricNewDeaths:       "new_deaths",
	domain.MetricTotalDeaths:     "total_deaths",
	domain.MetricNewVaccinations: "new_vaccinations",
}

// Store supports both ingestion (Add) and the read operations the dashboard
// needs. The dataset is written once at startup and read-only afterwards.
type Store interface {
	Add(ctx context.Context, records []store.DailyRecord) error
	ListCountries(ctx context.Context) ([]string, error)
	GetSeries(ctx context.Context, country string, metric domain.Metric, rng domain.DateRange) (domain.TimeSeries, error)
	GetByDate(ctx context.Context, date time.Time) ([]store.DailyRecord, error)
	GetStats(ctx context.Context) (*store.DatasetStats, error)
	GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error)
}

type recordStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recordStore{db: db}, nil
}

func (s *recordStore) Add(ctx context.Context, records []store.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO daily_records (
			country, date, new_cases, total_cases,
			new_deaths, total_deaths, new_vaccinations
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			record.Country,
			record.Date,
			record.NewCases,
			record.TotalCases,
			record.NewDeaths,
			record.TotalDeaths,
			record.NewVaccinations,
		)

		if err != nil {
			return fmt.Errorf("insert record for %s/%s: %w",
				record.Country, record.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

func (s *recordStore) ListCountries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT country FROM daily_records ORDER BY country`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (s *recordStore) GetSeries(
	ctx context.Context,
	country string,
	metric domain.Metric,
	rng domain.DateRange,
) (domain.TimeSeries, error) {
	column, ok := columnFor[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, metric)
	}

	query := fmt.Sprintf(`
		SELECT date, %s FROM daily_records
		WHERE country = ? AND date >= ? AND date <= ?
		ORDER BY date`, column)

	rows, err := s.db.QueryContext(ctx, query, country, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series domain.TimeSeries
	for rows.Next() {
		var p domain.Point
		var value sql.NullFloat64
		if err := rows.Scan(&p.Date, &value); err != nil {
			return nil, fmt.Errorf("scan series point: %w", err)
		}
		p.Value = value.Float64
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(series) == 0 {
		exists, err := s.countryExists(ctx, country)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: country %q", domain.ErrNotFound, country)
		}
	}

	return series, nil
}

func (s *recordStore) countryExists(ctx context.Context, country string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_records WHERE country = ?`, country).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check country: %w", err)
	}
	return count > 0, nil
}

func (s *recordStore) GetByDate(ctx context.Context, date time.Time) ([]store.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country, date, new_cases, total_cases,
		       new_deaths, total_deaths, new_vaccinations
		FROM daily_records WHERE date = ?
		ORDER BY country`, date)
	if err != nil {
		return nil, fmt.Errorf("query records by date: %w", err)
	}
	defer rows.Close()

	var records []store.DailyRecord
	for rows.Next() {
		var r store.DailyRecord
		if err := rows.Scan(
			&r.Country, &r.Date, &r.NewCases, &r.TotalCases,
			&r.NewDeaths, &r.TotalDeaths, &r.NewVaccinations,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *recordStore) GetStats(ctx context.Context) (*store.DatasetStats, error) {
	var stats store.DatasetStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT country), MIN(date), MAX(date)
		FROM daily_records`).
		Scan(&stats.RecordsCount, &stats.Countries, &stats.FirstDate, &stats.LastDate)
	if err != nil {
		return nil, fmt.Errorf("query dataset stats: %w", err)
	}
	return &stats, nil
}

// GlobalSummary computes the worldwide headline figures: the peak of the
// by-date roll-up for the cumulative columns, and the overall vaccination sum.
func (s *recordStore) GlobalSummary(ctx context.Context) (*domain.GlobalSummary, error) {
	var summary domain.GlobalSummary
	var first, last sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(MAX(cases), 0),
			COALESCE(MAX(deaths), 0),
			COALESCE(SUM(vaccinations), 0)
		FROM (
			SELECT date,
			       SUM(total_cases) AS cases,
			       SUM(total_deaths) AS deaths,
			       SUM(new_vaccinations) AS vaccinations
			FROM daily_records
			GROUP BY date
		)`).
		Scan(&summary.TotalCases, &summary.TotalDeaths, &summary.TotalVaccinations)
	if err != nil {
		return nil, fmt.Errorf("query global summary: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT country), MIN(date), MAX(date) FROM daily_records`).
		Scan(&summary.Countries, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query dataset span: %w", err)
	}
	if first.Valid {
		summary.Period.From = first.Time
	}
	if last.Valid {
		summary.Period.To = last.Time
	}

	return &summary, nil
}
