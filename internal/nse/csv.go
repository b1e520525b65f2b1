package nse

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSV parses the bulk/block deals CSV download format: a header line
// followed by rows of date, symbol, security name, client, buy/sell,
// quantity, price, remarks. Client names contain commas, so fields are
// quote-aware. Quantity and price arrive with grouping commas.
func ParseCSV(data []byte) ([]RawDealRow, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("csv payload too short: %d lines", len(lines))
	}

	rows := make([]RawDealRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitCSVLine(strings.TrimRight(line, "\r"))
		if len(fields) < 7 {
			continue
		}

		qty, err := strconv.ParseInt(stripNumber(fields[5]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad quantity %q: %w", fields[5], err)
		}
		price, err := strconv.ParseFloat(stripNumber(fields[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", fields[6], err)
		}

		remarks := "-"
		if len(fields) > 7 && fields[7] != "" {
			remarks = fields[7]
		}

		rows = append(rows, RawDealRow{
			Date:       fields[0],
			Symbol:     fields[1],
			ScripName:  fields[2],
			ClientName: fields[3],
			BuySell:    fields[4],
			Quantity:   qty,
			TradePrice: price,
			Remarks:    remarks,
		})
	}
	return rows, nil
}

// splitCSVLine tokenizes one line, honouring double quotes around fields.
func splitCSVLine(line string) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// stripNumber removes quotes and grouping commas from a numeric field.
func stripNumber(s string) string {
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
