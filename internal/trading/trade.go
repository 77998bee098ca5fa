// Package trading records simulated trades and folds them into positions.
package trading

import (
	"fmt"
	"taengine/num"
	"taengine/types"
)

// Trade is one fill at a bar index. Cost is the total transaction cost of the
// fill, not a per unit value.
type Trade struct {
	Index  int
	Type   types.TradeType
	Price  num.Num
	Amount num.Num
	Cost   num.Num
}

// Value is price times amount, before costs.
func (t Trade) Value() num.Num {
	return t.Price.MultipliedBy(t.Amount)
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s@%s #%d", t.Type, t.Amount, t.Price, t.Index)
}

// CostModel prices a fill.
type CostModel interface {
	Cost(price, amount num.Num) num.Num
}

// ZeroCost charges nothing.
type ZeroCost struct{}

func (ZeroCost) Cost(price, _ num.Num) num.Num {
	if f := price.Factory(); f != nil {
		return f.Zero()
	}
	return num.NaN
}

// LinearCost charges Rate times the traded value.
type LinearCost struct {
	Rate num.Num
}

func (c LinearCost) Cost(price, amount num.Num) num.Num {
	return price.MultipliedBy(amount).MultipliedBy(c.Rate)
}
