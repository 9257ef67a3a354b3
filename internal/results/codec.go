package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ianfmc/livewell-nadex/internal/domain"
)

var (
	tradesHeader = []string{
		"Date", "Ticker", "Exp Value", "Strike Price", "rsi", "signal",
		"entry_cost", "probability_itm", "In the Money", "pnl",
	}
	dailyHeader = []string{
		"Date", "pnl", "entry_cost", "cumulative_pnl", "running_max", "drawdown",
	}
)

// summaryJSON es el formato de kpi_summary.json.
type summaryJSON struct {
	WinRate        float64               `json:"win_rate"`
	TotalTrades    int                   `json:"total_trades"`
	Wins           int                   `json:"wins"`
	Losses         int                   `json:"losses"`
	GrossPnL       float64               `json:"gross_pnl"`
	Commissions    float64               `json:"commissions"`
	NetPnL         float64               `json:"net_pnl"`
	MaxDrawdown    float64               `json:"max_drawdown"`
	MaxDrawdownPct float64               `json:"max_drawdown_pct"`
	RecoveryDays   int                   `json:"recovery_days"`
	DateStart      *string               `json:"date_start"`
	DateEnd        *string               `json:"date_end"`
	RunID          string                `json:"run_id"`
	GeneratedAt    string                `json:"generated_at"`
	StrategyParams domain.StrategyParams `json:"strategy_params"`
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseOptDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, *s)
}

func encodeTrades(trades []domain.SimulatedTrade) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tradesHeader); err != nil {
		return nil, err
	}
	for _, t := range trades {
		rec := []string{
			t.Date.Format(dateLayout),
			t.Ticker,
			fmtFloat(t.ExpValue),
			fmtFloat(t.StrikePrice),
			fmtFloat(t.RSI),
			t.Signal.String(),
			fmtFloat(t.EntryCost),
			fmtFloat(t.ProbabilityITM),
			strconv.FormatBool(t.InTheMoney),
			fmtFloat(t.PnL),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeTrades(data []byte) ([]domain.SimulatedTrade, error) {
	rows, err := readCSV(data, tradesHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SimulatedTrade, 0, len(rows))
	for i, rec := range rows {
		p := fieldParser{rec: rec}
		t := domain.SimulatedTrade{
			Date:           p.date(0),
			Ticker:         rec[1],
			ExpValue:       p.float(2),
			StrikePrice:    p.float(3),
			RSI:            p.float(4),
			Signal:         p.signal(5),
			EntryCost:      p.float(6),
			ProbabilityITM: p.float(7),
			InTheMoney:     p.bool(8),
			PnL:            p.float(9),
		}
		if p.err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, p.err)
		}
		out = append(out, t)
	}
	return out, nil
}

func encodeDaily(daily []domain.DailyMetric) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(dailyHeader); err != nil {
		return nil, err
	}
	for _, d := range daily {
		rec := []string{
			d.Date.Format(dateLayout),
			fmtFloat(d.PnL),
			fmtFloat(d.EntryCost),
			fmtFloat(d.CumulativePnL),
			fmtFloat(d.RunningMax),
			fmtFloat(d.Drawdown),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeDaily(data []byte) ([]domain.DailyMetric, error) {
	rows, err := readCSV(data, dailyHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyMetric, 0, len(rows))
	for i, rec := range rows {
		p := fieldParser{rec: rec}
		d := domain.DailyMetric{
			Date:          p.date(0),
			PnL:           p.float(1),
			EntryCost:     p.float(2),
			CumulativePnL: p.float(3),
			RunningMax:    p.float(4),
			Drawdown:      p.float(5),
		}
		if p.err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, p.err)
		}
		out = append(out, d)
	}
	return out, nil
}

func encodeSummary(r Results) ([]byte, error) {
	k := r.KPIs
	s := summaryJSON{
		WinRate:        k.WinRate,
		TotalTrades:    k.TotalTrades,
		Wins:           k.Wins,
		Losses:         k.Losses,
		GrossPnL:       k.GrossPnL,
		Commissions:    k.Commissions,
		NetPnL:         k.NetPnL,
		MaxDrawdown:    k.MaxDrawdown,
		MaxDrawdownPct: k.MaxDrawdownPct,
		RecoveryDays:   k.RecoveryDays,
		DateStart:      optDate(k.DateStart),
		DateEnd:        optDate(k.DateEnd),
		RunID:          r.RunID,
		GeneratedAt:    r.GeneratedAt.Format(time.RFC3339),
		StrategyParams: r.Params,
	}
	return json.MarshalIndent(s, "", "  ")
}

// decodeSummary rellena todo menos Trades y Daily.
func decodeSummary(data []byte) (Results, error) {
	var s summaryJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return Results{}, err
	}
	start, err := parseOptDate(s.DateStart)
	if err != nil {
		return Results{}, fmt.Errorf("date_start: %w", err)
	}
	end, err := parseOptDate(s.DateEnd)
	if err != nil {
		return Results{}, fmt.Errorf("date_end: %w", err)
	}
	var generated time.Time
	if s.GeneratedAt != "" {
		if generated, err = time.Parse(time.RFC3339, s.GeneratedAt); err != nil {
			return Results{}, fmt.Errorf("generated_at: %w", err)
		}
		generated = generated.UTC()
	}
	return Results{
		RunID:       s.RunID,
		Params:      s.StrategyParams,
		GeneratedAt: generated,
		KPIs: domain.KPIRecord{
			WinRate:        s.WinRate,
			TotalTrades:    s.TotalTrades,
			Wins:           s.Wins,
			Losses:         s.Losses,
			GrossPnL:       s.GrossPnL,
			Commissions:    s.Commissions,
			NetPnL:         s.NetPnL,
			MaxDrawdown:    s.MaxDrawdown,
			MaxDrawdownPct: s.MaxDrawdownPct,
			RecoveryDays:   s.RecoveryDays,
			DateStart:      start,
			DateEnd:        end,
		},
	}, nil
}

// readCSV lee el CSV, comprueba la cabecera y devuelve las filas de datos.
func readCSV(data []byte, header []string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(header)
	got, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, h := range header {
		if got[i] != h {
			return nil, fmt.Errorf("header: column %d is %q, want %q", i, got[i], h)
		}
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// fieldParser acumula el primer error de parseo de una fila.
type fieldParser struct {
	rec []string
	err error
}

func (p *fieldParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.rec[i], 64)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *fieldParser) date(i int) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, p.rec[i])
	if err != nil {
		p.err = err
	}
	return t
}

func (p *fieldParser) bool(i int) bool {
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(p.rec[i])
	if err != nil {
		p.err = err
	}
	return v
}

func (p *fieldParser) signal(i int) domain.Signal {
	if p.err != nil {
		return domain.SignalHold
	}
	s, err := domain.ParseSignal(p.rec[i])
	if err != nil {
		p.err = err
	}
	return s
}
