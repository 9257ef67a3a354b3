package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

// Columnas obligatorias del CSV histórico. El resto se ignora.
const (
	colTicker     = "ticker"
	colDate       = "date"
	colExpValue   = "exp value"
	colStrike     = "strike price"
	colInTheMoney = "in the money"
)

// Record es el schema Parquet de un chunk histórico. Date usa el mismo
// layout que el CSV.
type Record struct {
	Ticker      string  `parquet:"ticker"`
	Date        string  `parquet:"date"`
	ExpValue    float64 `parquet:"exp_value"`
	StrikePrice float64 `parquet:"strike_price"`
	InTheMoney  bool    `parquet:"in_the_money"`
}

// parseCSV convierte un chunk CSV en observaciones. Cualquier fila inválida
// invalida el chunk completo.
func parseCSV(data []byte, dateFormat string) ([]domain.PriceObservation, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{colTicker, colDate, colExpValue, colStrike, colInTheMoney} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []domain.PriceObservation
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		obs, err := parseRow(
			rec[idx[colTicker]], rec[idx[colDate]], rec[idx[colExpValue]],
			rec[idx[colStrike]], rec[idx[colInTheMoney]], dateFormat,
		)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, obs)
	}
	return out, nil
}

func parseRow(ticker, date, exp, strike, itm, dateFormat string) (domain.PriceObservation, error) {
	d, err := ParseDate(date, dateFormat)
	if err != nil {
		return domain.PriceObservation{}, err
	}
	e, err := strconv.ParseFloat(strings.TrimSpace(exp), 64)
	if err != nil {
		return domain.PriceObservation{}, fmt.Errorf("exp value %q: %w", exp, err)
	}
	k, err := strconv.ParseFloat(strings.TrimSpace(strike), 64)
	if err != nil {
		return domain.PriceObservation{}, fmt.Errorf("strike price %q: %w", strike, err)
	}
	in, err := ParseFlag(itm)
	if err != nil {
		return domain.PriceObservation{}, err
	}
	return domain.PriceObservation{
		Ticker:      strings.TrimSpace(ticker),
		Date:        d,
		ExpValue:    e,
		StrikePrice: k,
		InTheMoney:  in,
	}, nil
}

// parseParquet convierte un chunk Parquet (schema Record) en observaciones.
func parseParquet(data []byte, dateFormat string) ([]domain.PriceObservation, error) {
	rows, err := parquet.Read[Record](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	out := make([]domain.PriceObservation, 0, len(rows))
	for i, r := range rows {
		d, err := ParseDate(r.Date, dateFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, domain.PriceObservation{
			Ticker:      r.Ticker,
			Date:        d,
			ExpValue:    r.ExpValue,
			StrikePrice: r.StrikePrice,
			InTheMoney:  r.InTheMoney,
		})
	}
	return out, nil
}

// ParseDate parsea la fecha con el layout configurado y, si falla, con ISO
// (2006-01-02). El resultado es medianoche UTC.
func ParseDate(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range []string{layout, time.DateOnly} {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: does not match %q or %q", s, layout, time.DateOnly)
}

// ParseFlag interpreta la columna "In the Money": 1/0, true/false, yes/no.
// Cualquier otro número (2, 0.5, -1) es un error.
func ParseFlag(s string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "yes", "y":
		return true, nil
	case "no", "n", "":
		return false, nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		switch f {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, fmt.Errorf("in the money %q: not a boolean", s)
}
