package timeline

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/investments"
	"github.com/shopspring/decimal"
)

// SimulationState is the mutable record of one run. Only event resolution
// and the run loop write to it.
type SimulationState struct {
	Investments      *investments.Investments
	FreeCash         decimal.Decimal
	AnnualIncome     decimal.Decimal
	AnnualSpending   decimal.Decimal
	DepositPolicy    *DepositPolicy
	WithdrawalPolicy *WithdrawalPolicy
	Retired          bool
}

// NewSimulationState returns a state with zero cash flow around inv.
func NewSimulationState(inv *investments.Investments) *SimulationState {
	return &SimulationState{
		Investments:    inv,
		FreeCash:       decimal.Zero,
		AnnualIncome:   decimal.Zero,
		AnnualSpending: decimal.Zero,
	}
}

// YearBucket holds one year's events in insertion order.
type YearBucket struct {
	year     int
	events   []Event
	resolved bool
}

func (b *YearBucket) Year() int      { return b.year }
func (b *YearBucket) Resolved() bool { return b.resolved }

// Events returns a copy of the bucket's events.
func (b *YearBucket) Events() []Event {
	return append([]Event(nil), b.events...)
}

// Resolve applies every event in insertion order. A bucket resolves once.
func (b *YearBucket) Resolve(state *SimulationState, ctx YearContext) error {
	if b.resolved {
		return fmt.Errorf("%w: year %d already resolved", domain.ErrInvalidInput, b.year)
	}
	if state == nil {
		return fmt.Errorf("%w: nil simulation state", domain.ErrInvalidInput)
	}
	for i, ev := range b.events {
		if err := resolve(ev, state, ctx); err != nil {
			return fmt.Errorf("year %d event %d (%s): %w", b.year, i, ev.Kind(), err)
		}
	}
	b.resolved = true
	return nil
}

// Timeline is a dense, year-indexed event log over [start, end].
type Timeline struct {
	startYear int
	endYear   int
	buckets   []*YearBucket
	cursor    int
}

// New creates an empty timeline covering start through end inclusive.
func New(startYear, endYear int) (*Timeline, error) {
	if endYear < startYear {
		return nil, fmt.Errorf("%w: timeline end %d before start %d", domain.ErrInvalidRange, endYear, startYear)
	}
	buckets := make([]*YearBucket, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		buckets = append(buckets, &YearBucket{year: y})
	}
	return &Timeline{startYear: startYear, endYear: endYear, buckets: buckets}, nil
}

func (t *Timeline) StartYear() int { return t.startYear }
func (t *Timeline) EndYear() int   { return t.endYear }
func (t *Timeline) Len() int       { return len(t.buckets) }

// Bucket returns the bucket for year.
func (t *Timeline) Bucket(year int) (*YearBucket, error) {
	if year < t.startYear || year > t.endYear {
		return nil, fmt.Errorf("%w: year %d outside %d-%d", domain.ErrOutOfRange, year, t.startYear, t.endYear)
	}
	return t.buckets[year-t.startYear], nil
}

// AddEvent appends ev to year's bucket.
func (t *Timeline) AddEvent(year int, ev Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", domain.ErrInvalidInput)
	}
	if err := ev.validate(); err != nil {
		return err
	}
	b, err := t.Bucket(year)
	if err != nil {
		return err
	}
	if b.resolved {
		return fmt.Errorf("%w: year %d already resolved", domain.ErrInvalidInput, year)
	}
	b.events = append(b.events, ev)
	return nil
}

// AddEventRange appends the same event to every year in [start, end]. The
// whole range is checked before anything is attached.
func (t *Timeline) AddEventRange(startYear, endYear int, ev Event) error {
	if endYear < startYear {
		return fmt.Errorf("%w: event range end %d before start %d", domain.ErrInvalidRange, endYear, startYear)
	}
	if _, err := t.Bucket(startYear); err != nil {
		return err
	}
	if _, err := t.Bucket(endYear); err != nil {
		return err
	}
	for y := startYear; y <= endYear; y++ {
		if t.buckets[y-t.startYear].resolved {
			return fmt.Errorf("%w: year %d already resolved", domain.ErrInvalidInput, y)
		}
	}
	for y := startYear; y <= endYear; y++ {
		if err := t.AddEvent(y, ev); err != nil {
			return err
		}
	}
	return nil
}

// Buckets returns every bucket in year order.
func (t *Timeline) Buckets() []*YearBucket {
	return append([]*YearBucket(nil), t.buckets...)
}

// Next hands out the next unvisited bucket. The timeline never rewinds.
func (t *Timeline) Next() (*YearBucket, bool) {
	if t.cursor >= len(t.buckets) {
		return nil, false
	}
	b := t.buckets[t.cursor]
	t.cursor++
	return b, true
}
