package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PhaseName identifies a simulation phase
type PhaseName string

const (
	PhaseAccumulation PhaseName = "accumulation"
	PhaseRetirement   PhaseName = "retirement"
	PhaseBankrupt     PhaseName = "bankrupt"
)

// ReturnsExtras carries provider-specific details for one simulation year
type ReturnsExtras struct {
	SimulationYear    int          `json:"simulation_year"`
	HistoricalYear    *int         `json:"historical_year,omitempty"`
	OriginalStartYear *int         `json:"original_start_year,omitempty"`
	NominalReturns    *AssetValues `json:"nominal_returns,omitempty"`
}

// ReturnsWithMetadata is one year of provider output. Returns and yields are
// real annual fractions; InflationRate is in percent.
type ReturnsWithMetadata struct {
	Returns       AssetValues     `json:"returns"`
	Yields        AssetValues     `json:"yields"`
	InflationRate decimal.Decimal `json:"inflation_rate"`
	Extras        ReturnsExtras   `json:"extras"`
}

// CashFlowBreakdown records the money movements of one period, or of one year
// when snapshots are aggregated.
type CashFlowBreakdown struct {
	Income        decimal.Decimal `json:"income"`
	PassiveIncome decimal.Decimal `json:"passive_income"`
	Expenses      decimal.Decimal `json:"expenses"`
	Taxes         decimal.Decimal `json:"taxes"`
	Penalties     decimal.Decimal `json:"penalties"`
	Contributions decimal.Decimal `json:"contributions"`
	EmployerMatch decimal.Decimal `json:"employer_match"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`
	Shortfall     decimal.Decimal `json:"shortfall"`
	Yields        decimal.Decimal `json:"yields"`
	Returns       decimal.Decimal `json:"returns"`
}

// Add sums two breakdowns
func (c CashFlowBreakdown) Add(o CashFlowBreakdown) CashFlowBreakdown {
	return CashFlowBreakdown{
		Income:        c.Income.Add(o.Income),
		PassiveIncome: c.PassiveIncome.Add(o.PassiveIncome),
		Expenses:      c.Expenses.Add(o.Expenses),
		Taxes:         c.Taxes.Add(o.Taxes),
		Penalties:     c.Penalties.Add(o.Penalties),
		Contributions: c.Contributions.Add(o.Contributions),
		EmployerMatch: c.EmployerMatch.Add(o.EmployerMatch),
		Withdrawals:   c.Withdrawals.Add(o.Withdrawals),
		Shortfall:     c.Shortfall.Add(o.Shortfall),
		Yields:        c.Yields.Add(o.Yields),
		Returns:       c.Returns.Add(o.Returns),
	}
}

// AccountSnapshot is one account's state at the end of a period
type AccountSnapshot struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	TaxCategory TaxCategory     `json:"tax_category"`
	Balance     decimal.Decimal `json:"balance"`
	Holdings    AssetValues     `json:"holdings"`
}

// PeriodSnapshot is the recorded state after one period
type PeriodSnapshot struct {
	Period      int                  `json:"period"`
	Years       float64              `json:"years"`
	Date        time.Time            `json:"date"`
	Age         float64              `json:"age"`
	Phase       PhaseName            `json:"phase"`
	TotalValue  decimal.Decimal      `json:"total_value"`
	AssetValues AssetValues          `json:"asset_values"`
	Accounts    []AccountSnapshot    `json:"accounts,omitempty"`
	CashFlow    CashFlowBreakdown    `json:"cash_flow"`
	Returns     *ReturnsWithMetadata `json:"returns,omitempty"`
}

// HistoricalRange is a contiguous block of dataset years used by a backtest
type HistoricalRange struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// Resolution is the snapshot granularity of a result
type Resolution string

const (
	ResolutionMonthly Resolution = "monthly"
	ResolutionYearly  Resolution = "yearly"
)

// SimulationContext records the fixed facts of a run
type SimulationContext struct {
	StartAge          float64            `json:"start_age"`
	LifeExpectancy    float64            `json:"life_expectancy"`
	StartDate         time.Time          `json:"start_date"`
	Strategy          RetirementStrategy `json:"strategy"`
	RetirementAge     *float64           `json:"retirement_age,omitempty"`
	RequiredPortfolio decimal.Decimal    `json:"required_portfolio"`
	InitialPortfolio  decimal.Decimal    `json:"initial_portfolio"`
	Mode              SimulationMode     `json:"mode"`
	Resolution        Resolution         `json:"resolution"`
}

// SimulationResult is the output of one engine run. It is not modified once returned.
type SimulationResult struct {
	Seed             uint32            `json:"seed"`
	Context          SimulationContext `json:"context"`
	Data             []PeriodSnapshot  `json:"data"`
	Success          bool              `json:"success"`
	RetirementAge    *float64          `json:"retirement_age,omitempty"`
	BankruptcyAge    *float64          `json:"bankruptcy_age,omitempty"`
	HistoricalRanges []HistoricalRange `json:"historical_ranges,omitempty"`
}

// Initial returns snapshot 0
func (r *SimulationResult) Initial() PeriodSnapshot {
	if len(r.Data) == 0 {
		return PeriodSnapshot{}
	}
	return r.Data[0]
}

// Final returns the last snapshot
func (r *SimulationResult) Final() PeriodSnapshot {
	if len(r.Data) == 0 {
		return PeriodSnapshot{}
	}
	return r.Data[len(r.Data)-1]
}

// FirstInPhase returns the first snapshot recorded in the given phase
func (r *SimulationResult) FirstInPhase(phase PhaseName) (PeriodSnapshot, bool) {
	for _, s := range r.Data {
		if s.Phase == phase {
			return s, true
		}
	}
	return PeriodSnapshot{}, false
}

// Retired reports whether the run ever reached retirement
func (r *SimulationResult) Retired() bool {
	return r.RetirementAge != nil
}

// LifetimeTaxes sums taxes across all snapshots
func (r *SimulationResult) LifetimeTaxes() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Data {
		total = total.Add(s.CashFlow.Taxes)
	}
	return total
}

// LifetimePenalties sums early-withdrawal penalties across all snapshots
func (r *SimulationResult) LifetimePenalties() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Data {
		total = total.Add(s.CashFlow.Penalties)
	}
	return total
}

// MultiSimulationResult holds every run of a batch keyed by seed. Seeds keeps run-index order.
type MultiSimulationResult struct {
	BatchID     uuid.UUID                    `json:"batch_id"`
	BaseSeed    uint32                       `json:"base_seed"`
	Mode        SimulationMode               `json:"mode"`
	Seeds       []uint32                     `json:"seeds"`
	Results     map[uint32]*SimulationResult `json:"-"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// Ordered returns the results in run-index order
func (m *MultiSimulationResult) Ordered() []*SimulationResult {
	out := make([]*SimulationResult, 0, len(m.Seeds))
	for _, s := range m.Seeds {
		if r, ok := m.Results[s]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of runs
func (m *MultiSimulationResult) Len() int { return len(m.Results) }
