package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode"

	"nse-deal-tracker/internal/analytics"
	"nse-deal-tracker/internal/deals"
	"nse-deal-tracker/internal/export"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/settings"
	"nse-deal-tracker/internal/types"
)

const isoDateLayout = "2006-01-02"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	opts, err := s.fetchOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.svc.Fetch(r.Context(), opts)
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Deal fetch failed", err)
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDealsExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.fetchForAnalytics(r)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="deals.csv"`)
	if err := export.WriteDealsCSV(w, result.Deals); err != nil {
		logger.ErrorWithErr(r.Context(), "CSV export failed", err)
	}
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	result, err := s.fetchForAnalytics(r)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	side := s.svc.SideData(r.Context(), result.Deals)
	groups := analytics.AggregateBySymbol(result.Deals, side)
	groups = analytics.FilterGroups(groups, filterQuery(r), analytics.SymbolGroupFields)
	groups = applySort(r, groups)

	respondGroups(w, groups, result)
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	result, err := s.fetchForAnalytics(r)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	groups := analytics.AggregateByClient(result.Deals)
	groups = analytics.FilterGroups(groups, filterQuery(r), analytics.ClientGroupFields)
	groups = applySort(r, groups)

	respondGroups(w, groups, result)
}

func (s *Server) handleClientStocks(w http.ResponseWriter, r *http.Request) {
	result, err := s.fetchForAnalytics(r)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	side := s.svc.SideData(r.Context(), result.Deals)
	groups := analytics.AggregateByClientStock(result.Deals, side)
	groups = analytics.FilterGroups(groups, filterQuery(r), analytics.ClientStockGroupFields)
	groups = applySort(r, groups)

	respondGroups(w, groups, result)
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("symbol parameter is required"))
		return
	}

	result, err := s.fetchForAnalytics(r)
	if err != nil {
		writeFetchError(w, r, err)
		return
	}

	groups := analytics.AggregateByDateSymbol(result.Deals, symbol)
	respondGroups(w, groups, result)
}

func (s *Server) handleETFs(w http.ResponseWriter, r *http.Request) {
	if s.etf == nil {
		respondError(w, http.StatusServiceUnavailable, fmt.Errorf("etf screen is not configured"))
		return
	}

	quotes, err := s.etf.Screen(r.Context())
	if err != nil {
		logger.ErrorWithErr(r.Context(), "ETF screen failed", err)
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"etfs":  quotes,
		"count": len(quotes),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.settings.Load())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var update settings.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid settings payload: %w", err))
		return
	}
	if err := validateUpdate(update); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	saved, err := s.settings.Save(update)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Reset(); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, s.settings.Load())
}

// fetchOptions resolves the deal window from query parameters, falling back
// to the stored preferences for anything the request leaves out.
func (s *Server) fetchOptions(r *http.Request) (deals.FetchOptions, error) {
	q := r.URL.Query()
	stored := s.settings.Load()

	dealType, err := parseDealType(q.Get("type"), stored.DealType)
	if err != nil {
		return deals.FetchOptions{}, err
	}

	hide := stored.HideIntraday
	if raw := q.Get("hideIntraday"); raw != "" {
		hide, err = strconv.ParseBool(raw)
		if err != nil {
			return deals.FetchOptions{}, fmt.Errorf("invalid hideIntraday value %q", raw)
		}
	}

	from, to, err := s.dateWindow(q.Get("from"), q.Get("to"), q.Get("window"), stored)
	if err != nil {
		return deals.FetchOptions{}, err
	}

	return deals.FetchOptions{
		DealType:     dealType,
		From:         from,
		To:           to,
		HideIntraday: hide,
	}, nil
}

func (s *Server) dateWindow(fromRaw, toRaw, window string, stored settings.FilterSettings) (time.Time, time.Time, error) {
	if fromRaw != "" || toRaw != "" {
		if fromRaw == "" || toRaw == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("from and to must be given together")
		}
		return parseDateSpan(fromRaw, toRaw)
	}

	if window == "" {
		window = stored.DateFilter
	}
	// A saved "custom" filter carries its own span. If the dates were never
	// saved the default window applies instead of an error.
	if window == "custom" {
		if stored.FromDate != "" && stored.ToDate != "" {
			return parseDateSpan(stored.FromDate, stored.ToDate)
		}
		window = settings.Defaults().DateFilter
	}
	return deals.DateRange(window, s.now())
}

func parseDateSpan(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := time.Parse(isoDateLayout, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", fromRaw)
	}
	to, err := time.Parse(isoDateLayout, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", toRaw)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date precedes from date")
	}
	return from, to, nil
}

func (s *Server) fetchForAnalytics(r *http.Request) (*deals.Result, error) {
	opts, err := s.fetchOptions(r)
	if err != nil {
		return nil, badRequestError{err}
	}
	return s.svc.Fetch(r.Context(), opts)
}

// badRequestError marks parameter errors so writeFetchError can pick the
// status code.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }

func writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	if br, ok := err.(badRequestError); ok {
		respondError(w, http.StatusBadRequest, br.err)
		return
	}
	logger.ErrorWithErr(r.Context(), "Deal fetch failed", err)
	respondError(w, http.StatusBadGateway, err)
}

func parseDealType(raw, stored string) (types.DealType, error) {
	if raw == "" {
		raw = stored
	}
	switch raw {
	case "bulk", "bulk_deals", "BULK":
		return types.Bulk, nil
	case "block", "block_deals", "BLOCK":
		return types.Block, nil
	case "both", "BOTH", "":
		return types.Both, nil
	default:
		return "", fmt.Errorf("unknown deal type %q", raw)
	}
}

func filterQuery(r *http.Request) analytics.Query {
	q := r.URL.Query()
	return analytics.Query{
		Client: q.Get("client"),
		Stock:  q.Get("stock"),
	}
}

// applySort re-orders groups when a sort parameter is present. The field is
// addressed by its JSON name, e.g. sort=totalValueBought&dir=asc.
func applySort[T any](r *http.Request, groups []T) []T {
	q := r.URL.Query()
	field := q.Get("sort")
	if field == "" {
		return groups
	}

	direction := analytics.Descending
	if q.Get("dir") == string(analytics.Ascending) {
		direction = analytics.Ascending
	}
	return analytics.SortByField(groups, exportedName(field), direction)
}

func exportedName(jsonName string) string {
	if jsonName == "" {
		return jsonName
	}
	runes := []rune(jsonName)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func respondGroups[T any](w http.ResponseWriter, groups []T, result *deals.Result) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups":        groups,
		"count":         len(groups),
		"dedupStats":    result.Dedup,
		"intradayStats": result.Intraday,
	})
}

func validateUpdate(update settings.Update) error {
	if update.DealType != nil {
		if _, err := parseDealType(*update.DealType, "both"); err != nil {
			return err
		}
	}
	if update.DateFilter != nil {
		switch *update.DateFilter {
		case "1D", "1W", "1M", "3M", "custom":
		default:
			return fmt.Errorf("unknown date filter %q", *update.DateFilter)
		}
	}
	for _, raw := range []*string{update.FromDate, update.ToDate} {
		if raw != nil && *raw != "" {
			if _, err := time.Parse(isoDateLayout, *raw); err != nil {
				return fmt.Errorf("invalid date %q", *raw)
			}
		}
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error(context.Background(), "Failed to encode response", "error", err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
