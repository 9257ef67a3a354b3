package domain

// Dashboard es la vista ya preparada que recibe el renderer de reportes:
// valores formateados, clases CSS decididas y series de charts serializadas
// en JSON. El renderer no recalcula nada.
type Dashboard struct {
	// KPIs
	WinRate        string
	TotalTrades    int
	Wins           int
	Losses         int
	GrossPnL       string
	Commissions    string
	NetPnL         string
	MaxDrawdown    string
	MaxDrawdownPct string
	RecoveryDays   int

	// Fechas
	DateStart     string // "Jan 02, 2006" o "N/A"
	DateEnd       string
	GeneratedTime string

	// Clases CSS: "positive" | "negative"
	WinRateClass  string
	NetPnLClass   string
	GrossPnLClass string

	// Series de charts, alineadas por fecha
	DatesJSON         string
	CumulativePnLJSON string
	DrawdownJSON      string

	CommissionPerContract string
	StrategyLabel         string
	Template              string // nombre de plantilla del renderer
}
