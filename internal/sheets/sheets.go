package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nse-deal-tracker/internal/api"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/types"
)

// Client pulls the market-cap and price lookup tables from a published
// Google Sheet. The sheet is maintained by hand, so both transports tolerate
// missing columns and malformed cells by skipping them.
type Client struct {
	api     *api.Client
	sheetID string
	gid     string
}

// Config holds the sheet coordinates.
type Config struct {
	SheetID string
	GID     string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	gid := cfg.GID
	if gid == "" {
		gid = "0"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		api:     api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		sheetID: cfg.SheetID,
		gid:     gid,
	}
}

// FetchSideData downloads the sheet and builds the per-symbol lookup tables.
// It tries the CSV export first and falls back to the gviz JSON endpoint,
// which stays reachable when the CSV export is disabled for the sheet.
func (c *Client) FetchSideData(ctx context.Context) (types.SideData, error) {
	if c.sheetID == "" {
		return types.NewSideData(), fmt.Errorf("sheet id not configured")
	}

	csvURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", c.sheetID, c.gid)
	resp, err := c.api.Get(ctx, csvURL, nil)
	if err == nil {
		if side, ok := parseCSVSheet(string(resp.Body)); ok {
			return side, nil
		}
		logger.Warn(ctx, "sheet CSV export unusable, trying gviz", "sheetId", c.sheetID)
	} else {
		logger.Warn(ctx, "sheet CSV export failed, trying gviz", "sheetId", c.sheetID, "error", err.Error())
	}

	gvizURL := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&gid=%s", c.sheetID, c.gid)
	resp, err = c.api.Get(ctx, gvizURL, nil)
	if err != nil {
		return types.NewSideData(), fmt.Errorf("sheet fetch failed on both transports: %w", err)
	}
	side, err := parseGviz(resp.Body)
	if err != nil {
		return types.NewSideData(), err
	}
	return side, nil
}

// columnIndexes locates the symbol, market-cap, price and ask-price columns
// by substring match on the lowercased header labels. Symbol and market cap
// are required, the price columns optional.
type columnIndexes struct {
	symbol, marketCap, price, askPrice int
}

func sniffColumns(labels []string) (columnIndexes, bool) {
	idx := columnIndexes{symbol: -1, marketCap: -1, price: -1, askPrice: -1}
	for i, raw := range labels {
		label := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case idx.symbol == -1 && strings.Contains(label, "symbol"):
			idx.symbol = i
		case idx.marketCap == -1 && strings.Contains(label, "market") && strings.Contains(label, "cap"):
			idx.marketCap = i
		case idx.askPrice == -1 && strings.Contains(label, "ask"):
			idx.askPrice = i
		case idx.price == -1 && strings.Contains(label, "price"):
			idx.price = i
		}
	}
	return idx, idx.symbol != -1 && idx.marketCap != -1
}

// parseCSVSheet parses the export=csv payload. Returns ok=false when the
// payload does not look like the expected sheet, so the caller can fall back.
func parseCSVSheet(body string) (types.SideData, bool) {
	side := types.NewSideData()
	lines := splitLines(body)
	if len(lines) < 2 {
		return side, false
	}

	idx, ok := sniffColumns(strings.Split(lines[0], ","))
	if !ok {
		return side, false
	}

	for _, line := range lines[1:] {
		row := strings.Split(line, ",")
		symbol := unquote(cell(row, idx.symbol))
		if symbol == "" {
			continue
		}
		if v, err := parseSheetNumber(cell(row, idx.marketCap)); err == nil {
			side.MarketCap[symbol] = v
		}
		if idx.price != -1 {
			if v, err := parseSheetNumber(cell(row, idx.price)); err == nil {
				side.Price[symbol] = v
			}
		}
		if idx.askPrice != -1 {
			if v, err := parseSheetNumber(cell(row, idx.askPrice)); err == nil {
				side.AskPrice[symbol] = v
			}
		}
	}
	return side, true
}

// gvizTable mirrors the subset of the gviz response the lookup needs.
type gvizTable struct {
	Table struct {
		Cols []struct {
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V interface{} `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

var gvizEnvelope = regexp.MustCompile(`(?s)setResponse\((.*)\);?\s*$`)

// parseGviz unwraps the google.visualization.Query.setResponse(...) envelope
// and reads the same columns as the CSV path.
func parseGviz(body []byte) (types.SideData, error) {
	side := types.NewSideData()

	m := gvizEnvelope.FindSubmatch(body)
	if m == nil {
		return side, fmt.Errorf("gviz envelope not found in response")
	}

	var tbl gvizTable
	if err := json.Unmarshal(m[1], &tbl); err != nil {
		return side, fmt.Errorf("failed to decode gviz payload: %w", err)
	}

	labels := make([]string, len(tbl.Table.Cols))
	for i, col := range tbl.Table.Cols {
		labels[i] = col.Label
	}
	idx, ok := sniffColumns(labels)
	if !ok {
		return side, fmt.Errorf("gviz table missing symbol/market-cap columns")
	}

	for _, row := range tbl.Table.Rows {
		symbol := strings.TrimSpace(gvizString(row.C, idx.symbol))
		if symbol == "" {
			continue
		}
		if v, err := parseSheetNumber(gvizString(row.C, idx.marketCap)); err == nil {
			side.MarketCap[symbol] = v
		}
		if idx.price != -1 {
			if v, err := parseSheetNumber(gvizString(row.C, idx.price)); err == nil {
				side.Price[symbol] = v
			}
		}
		if idx.askPrice != -1 {
			if v, err := parseSheetNumber(gvizString(row.C, idx.askPrice)); err == nil {
				side.AskPrice[symbol] = v
			}
		}
	}
	return side, nil
}

func gvizString(cells []*struct {
	V interface{} `json:"v"`
}, i int) string {
	if i < 0 || i >= len(cells) || cells[i] == nil || cells[i].V == nil {
		return ""
	}
	switch v := cells[i].V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func splitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// parseSheetNumber reads a sheet cell as a number, tolerating grouping
// commas and surrounding quotes.
func parseSheetNumber(s string) (float64, error) {
	s = strings.ReplaceAll(unquote(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(s, 64)
}
