package adapters

import (
	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/models/store"
)

const dateLayout = "2006-01-02"

func MapStoreRecordToDomain(r store.DailyRecord) domain.DailyRecord {
	return domain.DailyRecord{
		Country:         r.Country,
		Date:            r.Date,
		NewCases:        r.NewCases,
		TotalCases:      r.TotalCases,
		NewDeaths:       r.NewDeaths,
		TotalDeaths:     r.TotalDeaths,
		NewVaccinations: r.NewVaccinations,
	}
}

// MapTimeSeriesToDerived lifts a raw series into the derived shape with every
// point defined, so raw and transformed series share one response format.
func MapTimeSeriesToDerived(s domain.TimeSeries) domain.DerivedSeries {
	out := make(domain.DerivedSeries, len(s))
	for i, p := range s {
		out[i] = domain.DerivedPoint{Date: p.Date, Value: p.Value, Defined: true}
	}
	return out
}

func MapDerivedSeriesToAPI(s domain.DerivedSeries) []api.SeriesPoint {
	points := make([]api.SeriesPoint, len(s))
	for i, p := range s {
		points[i] = api.SeriesPoint{Date: p.Date.Format(dateLayout)}
		if p.Defined {
			v := p.Value
			points[i].Value = &v
		}
	}
	return points
}

func MapForecastToAPI(f *domain.Forecast) api.Forecast {
	rows := make([]api.ForecastRow, len(f.Points))
	for i, p := range f.Points {
		rows[i] = api.ForecastRow{
			Date:      p.Date.Format(dateLayout),
			Predicted: p.Value,
			Lower:     p.Lower,
			Upper:     p.Upper,
		}
	}
	return api.Forecast{
		Available: true,
		Country:   f.Country,
		Metric:    string(f.Metric),
		Horizon:   f.Horizon,
		Rows:      rows,
	}
}
