package trading

import (
	"taengine/num"
	"taengine/types"
)

// Position pairs an entry with its exit. A position without an entry is new,
// one without an exit is open.
type Position struct {
	Entry *Trade
	Exit  *Trade

	f num.Factory
}

func (p Position) IsNew() bool    { return p.Entry == nil }
func (p Position) IsOpened() bool { return p.Entry != nil && p.Exit == nil }
func (p Position) IsClosed() bool { return p.Entry != nil && p.Exit != nil }

// StartingType is the trade type of the entry, empty for a new position.
func (p Position) StartingType() types.TradeType {
	if p.Entry == nil {
		return ""
	}
	return p.Entry.Type
}

// Profit is the realized profit net of costs, zero unless closed.
func (p Position) Profit() num.Num {
	if !p.IsClosed() {
		return p.zero()
	}
	return p.profitAt(p.Exit.Price, p.Exit.Cost)
}

// ProfitAt values an open or closed position at price, without exit costs
// for an open one.
func (p Position) ProfitAt(price num.Num) num.Num {
	if p.IsNew() {
		return p.zero()
	}
	if p.IsClosed() {
		return p.Profit()
	}
	return p.profitAt(price, p.zero())
}

func (p Position) profitAt(exitPrice, exitCost num.Num) num.Num {
	diff := exitPrice.Minus(p.Entry.Price)
	if p.Entry.Type == types.TradeTypeSell {
		diff = diff.Neg()
	}
	return diff.MultipliedBy(p.Entry.Amount).Minus(p.Entry.Cost).Minus(exitCost)
}

// GrossReturn is exit/entry for a long position and 2 - exit/entry for a
// short one. A position that is not closed returns one.
func (p Position) GrossReturn() num.Num {
	if !p.IsClosed() {
		return p.one()
	}
	ratio := p.Exit.Price.DividedBy(p.Entry.Price)
	if p.Entry.Type == types.TradeTypeSell {
		return p.one().Plus(p.one()).Minus(ratio)
	}
	return ratio
}

// Cost is the sum of entry and exit costs.
func (p Position) Cost() num.Num {
	switch {
	case p.IsNew():
		return p.zero()
	case p.IsOpened():
		return p.Entry.Cost
	}
	return p.Entry.Cost.Plus(p.Exit.Cost)
}

func (p Position) IsProfitable() bool { return p.Profit().IsPositive() }
func (p Position) IsLosing() bool     { return p.Profit().IsNegative() }

func (p Position) factory() num.Factory {
	if p.f != nil {
		return p.f
	}
	if p.Entry != nil && p.Entry.Price.Factory() != nil {
		return p.Entry.Price.Factory()
	}
	return num.Decimal
}

func (p Position) zero() num.Num { return p.factory().Zero() }
func (p Position) one() num.Num  { return p.factory().One() }
