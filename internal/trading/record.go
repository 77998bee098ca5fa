package trading

import (
	"errors"
	"fmt"
	"taengine/num"
	"taengine/types"
)

var (
	ErrPositionOpen    = errors.New("a position is already open")
	ErrNoOpenPosition  = errors.New("no open position to exit")
	ErrTradeIndex      = errors.New("trade index precedes the last trade")
	ErrInvalidAmount   = errors.New("trade amount must be positive")
	ErrInvalidPrice    = errors.New("trade price is undefined")
	ErrFactoryMismatch = errors.New("trade values use a different numeric factory")
)

// Record is the append only trade ledger of one strategy run. Trades
// alternate between the starting type and its complement, so at most one
// position is open at any time.
//
// A Record is owned by a single run and is not safe for concurrent use.
type Record struct {
	name         string
	factory      num.Factory
	startingType types.TradeType
	costs        CostModel
	trades       []Trade
}

type RecordOption func(*Record)

func WithCostModel(c CostModel) RecordOption {
	return func(r *Record) {
		r.costs = c
	}
}

func WithName(name string) RecordOption {
	return func(r *Record) {
		r.name = name
	}
}

func NewRecord(f num.Factory, startingType types.TradeType, opts ...RecordOption) *Record {
	r := &Record{
		factory:      f,
		startingType: startingType,
		costs:        ZeroCost{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Record) Name() string                  { return r.name }
func (r *Record) Factory() num.Factory          { return r.factory }
func (r *Record) StartingType() types.TradeType { return r.startingType }

// Enter opens a position. It fails with ErrPositionOpen when one is open.
func (r *Record) Enter(index int, price, amount num.Num) (Trade, error) {
	if r.IsOpened() {
		return Trade{}, fmt.Errorf("enter at %d: %w", index, ErrPositionOpen)
	}
	return r.Operate(index, price, amount)
}

// Exit closes the open position. It fails with ErrNoOpenPosition otherwise.
func (r *Record) Exit(index int, price, amount num.Num) (Trade, error) {
	if !r.IsOpened() {
		return Trade{}, fmt.Errorf("exit at %d: %w", index, ErrNoOpenPosition)
	}
	return r.Operate(index, price, amount)
}

// Operate appends the next trade in the alternation: an entry when no
// position is open, an exit otherwise.
func (r *Record) Operate(index int, price, amount num.Num) (Trade, error) {
	t := Trade{
		Index:  index,
		Type:   r.nextType(),
		Price:  price,
		Amount: amount,
	}
	if err := r.Append(t); err != nil {
		return Trade{}, err
	}
	return r.trades[len(r.trades)-1], nil
}

// Append adds a prebuilt trade after checking it keeps the alternation. A nil
// Cost is filled in from the cost model.
func (r *Record) Append(t Trade) error {
	if t.Type != r.nextType() {
		if r.IsOpened() {
			return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrPositionOpen)
		}
		return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrNoOpenPosition)
	}
	if last, ok := r.LastTrade(); ok && t.Index < last.Index {
		return fmt.Errorf("%s at %d after %d: %w", t.Type, t.Index, last.Index, ErrTradeIndex)
	}
	if t.Index < 0 {
		return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrTradeIndex)
	}
	if t.Price == nil || t.Price.IsNaN() {
		return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrInvalidPrice)
	}
	if t.Amount == nil || !t.Amount.IsPositive() {
		return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrInvalidAmount)
	}
	if !num.SameFactory(r.factory, t.Price, t.Amount) {
		return fmt.Errorf("%s at %d: %w", t.Type, t.Index, ErrFactoryMismatch)
	}
	if t.Cost == nil {
		t.Cost = r.costs.Cost(t.Price, t.Amount)
	}
	r.trades = append(r.trades, t)
	return nil
}

func (r *Record) nextType() types.TradeType {
	if r.IsOpened() {
		return r.startingType.Complement()
	}
	return r.startingType
}

// IsOpened reports whether the last trade is an entry.
func (r *Record) IsOpened() bool {
	return len(r.trades)%2 == 1
}

func (r *Record) IsClosed() bool {
	return !r.IsOpened()
}

// Trades returns a copy of the ledger.
func (r *Record) Trades() []Trade {
	out := make([]Trade, len(r.trades))
	copy(out, r.trades)
	return out
}

func (r *Record) TradeCount() int {
	return len(r.trades)
}

// trade copies a ledger entry so positions never alias the ledger.
func (r *Record) trade(i int) *Trade {
	t := r.trades[i]
	return &t
}

// Positions folds the ledger into positions, the open one last.
func (r *Record) Positions() []Position {
	out := make([]Position, 0, (len(r.trades)+1)/2)
	for i := 0; i < len(r.trades); i += 2 {
		p := Position{Entry: r.trade(i), f: r.factory}
		if i+1 < len(r.trades) {
			p.Exit = r.trade(i + 1)
		}
		out = append(out, p)
	}
	return out
}

// ClosedPositions is Positions without the open one.
func (r *Record) ClosedPositions() []Position {
	ps := r.Positions()
	if r.IsOpened() {
		ps = ps[:len(ps)-1]
	}
	return ps
}

// PositionCount is the number of closed positions.
func (r *Record) PositionCount() int {
	return len(r.trades) / 2
}

// CurrentPosition is the open position, or a new one when none is open.
func (r *Record) CurrentPosition() Position {
	if r.IsOpened() {
		return Position{Entry: r.trade(len(r.trades) - 1), f: r.factory}
	}
	return Position{f: r.factory}
}

// LastPosition is the latest closed position.
func (r *Record) LastPosition() (Position, bool) {
	n := len(r.trades) - len(r.trades)%2
	if n == 0 {
		return Position{}, false
	}
	return Position{Entry: r.trade(n - 2), Exit: r.trade(n - 1), f: r.factory}, true
}

// RealizedProfit sums the profit of closed positions.
func (r *Record) RealizedProfit() num.Num {
	total := r.factory.Zero()
	for _, p := range r.ClosedPositions() {
		total = total.Plus(p.Profit())
	}
	return total
}

func (r *Record) LastTrade() (Trade, bool) {
	if len(r.trades) == 0 {
		return Trade{}, false
	}
	return r.trades[len(r.trades)-1], true
}

func (r *Record) LastTradeOfType(tt types.TradeType) (Trade, bool) {
	for i := len(r.trades) - 1; i >= 0; i-- {
		if r.trades[i].Type == tt {
			return r.trades[i], true
		}
	}
	return Trade{}, false
}

func (r *Record) LastEntry() (Trade, bool) {
	return r.LastTradeOfType(r.startingType)
}

func (r *Record) LastExit() (Trade, bool) {
	return r.LastTradeOfType(r.startingType.Complement())
}
