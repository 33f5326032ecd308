package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/covid-atlas/pkg/adapters"
	"github.com/de-tools/covid-atlas/pkg/export"
	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Handler struct {
	explorer dashboard.Explorer
	csv      *export.CSVReporter
	charts   *export.ChartRenderer
}

func NewHandler(explorer dashboard.Explorer) *Handler {
	return &Handler{
		explorer: explorer,
		csv:      export.NewCSVReporter(),
		charts:   export.NewChartRenderer(),
	}
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countries, err := h.explorer.ListCountries(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := make([]api.Country, 0, len(countries))
	for _, c := range countries {
		response = append(response, api.Country{Name: c})
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) GlobalSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.explorer.GlobalSummary(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, api.GlobalSummary{
		TotalCases:        summary.TotalCases,
		TotalDeaths:       summary.TotalDeaths,
		TotalVaccinations: summary.TotalVaccinations,
		Countries:         summary.Countries,
		From:              summary.Period.From,
		To:                summary.Period.To,
	})
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	query, err := h.seriesQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.explorer.CountrySeries(r.Context(), *query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, api.Series{
		Country:   result.Country,
		Metric:    string(result.Metric),
		Transform: string(result.Transform),
		Window:    result.Window,
		Points:    adapters.MapDerivedSeriesToAPI(result.Points),
	})
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.countryForecast(r)
	if err != nil {
		// An unfittable series disables the forecast panel; the rest of
		// the dashboard keeps working.
		if errors.Is(err, domain.ErrForecastUnavailable) {
			h.writeJSON(w, r, api.Forecast{Available: false, Reason: err.Error()})
			return
		}
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, adapters.MapForecastToAPI(forecast))
}

func (h *Handler) ExportForecastCSV(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	forecast, err := h.countryForecast(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s_covid_forecast.csv", strings.ReplaceAll(forecast.Country, " ", "_"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.csv.WriteForecast(w, forecast); err != nil {
		logger.Error().Err(err).Msg("failed to write forecast csv")
	}
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	query, err := h.seriesQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.explorer.CountrySeries(r.Context(), *query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	title := fmt.Sprintf("%s - %s", result.Country, result.Metric)
	png, err := h.charts.LinePNG(title, string(result.Metric), result.Points)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		logger.Error().Err(err).Msg("failed to write chart png")
	}
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	metric, err := parseMetricParam(r.URL.Query().Get("metric"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var countries []string
	for _, c := range strings.Split(r.URL.Query().Get("countries"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}

	rng, err := parseRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.explorer.Compare(r.Context(), countries, metric, rng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := api.Comparison{Metric: string(metric)}
	for _, result := range results {
		response.Series = append(response.Series, api.Series{
			Country:   result.Country,
			Metric:    string(result.Metric),
			Transform: string(result.Transform),
			Points:    adapters.MapDerivedSeriesToAPI(result.Points),
		})
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) seriesQuery(r *http.Request) (*dashboard.SeriesQuery, error) {
	metric, err := parseMetricParam(chi.URLParam(r, "metric"))
	if err != nil {
		return nil, err
	}

	rng, err := parseRange(r)
	if err != nil {
		return nil, err
	}

	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: window must be an integer, got %q", domain.ErrInvalidInput, raw)
		}
	}

	return &dashboard.SeriesQuery{
		Country:   chi.URLParam(r, "country"),
		Metric:    metric,
		Transform: dashboard.Transform(r.URL.Query().Get("transform")),
		Window:    window,
		Range:     rng,
	}, nil
}

func (h *Handler) countryForecast(r *http.Request) (*domain.Forecast, error) {
	metric, err := parseMetricParam(chi.URLParam(r, "metric"))
	if err != nil {
		return nil, err
	}

	horizon := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		horizon, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: horizon must be an integer, got %q", domain.ErrInvalidInput, raw)
		}
	}

	return h.explorer.CountryForecast(r.Context(), chi.URLParam(r, "country"), metric, horizon)
}

func parseMetricParam(raw string) (domain.Metric, error) {
	if raw == "" {
		return domain.MetricNewCases, nil
	}
	return domain.ParseMetric(raw)
}

func parseRange(r *http.Request) (domain.DateRange, error) {
	var rng domain.DateRange

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid 'from' date format. Expected format: YYYY-MM-DD", domain.ErrInvalidInput)
		}
		rng.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return rng, fmt.Errorf("%w: invalid 'to' date format. Expected format: YYYY-MM-DD", domain.ErrInvalidInput)
		}
		rng.To = t
	}
	return rng, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForecastUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
