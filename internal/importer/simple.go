package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kkb-dev/kkb/internal/id"
)

// SimpleParser reads "date,description,amount" files with YYYY-MM-DD
// dates. A header row starting with "date" is skipped.
type SimpleParser struct{}

const (
	simpleNumFields = 3
	simpleColDate   = 0
	simpleColDesc   = 1
	simpleColAmount = 2
)

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads the CSV and returns its rows in file order.
func (p *SimpleParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = simpleNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading simple CSV: %w", err)
	}

	if len(records) > 0 && strings.EqualFold(strings.TrimPrefix(records[0][simpleColDate], "\ufeff"), "date") {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row, err := parseSimpleRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSimpleRow(rec []string) (Row, error) {
	date, err := id.ParseDate(strings.TrimSpace(rec[simpleColDate]))
	if err != nil {
		return Row{}, fmt.Errorf("parsing date: %w", err)
	}

	raw := strings.ReplaceAll(strings.TrimSpace(rec[simpleColAmount]), ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[simpleColAmount], err)
	}

	return Row{
		Date:        date,
		Description: strings.TrimSpace(rec[simpleColDesc]),
		Amount:      amount,
	}, nil
}
