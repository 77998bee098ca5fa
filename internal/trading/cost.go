package trading

import (
	"taengine/num"
)

// TieredCost charges Rate times the traded value, clamped to [Min, Max] per
// fill. A NaN Max means no cap. Non-positive trade values cost nothing.
type TieredCost struct {
	Rate num.Num
	Min  num.Num
	Max  num.Num
}

func (c TieredCost) Cost(price, amount num.Num) num.Num {
	value := price.MultipliedBy(amount)
	if value.IsNaN() {
		return num.NaN
	}
	if !value.IsPositive() {
		return price.Factory().Zero()
	}
	fee := value.MultipliedBy(c.Rate)
	if fee.IsLessThan(c.Min) {
		fee = c.Min
	}
	if !c.Max.IsNaN() && fee.IsGreaterThan(c.Max) {
		fee = c.Max
	}
	return fee
}

// IBKRStockFixed is the IBKR fixed SmartRouting schedule for USD stocks on
// Dutch exchanges: 0.05% of the trade value, at least 1.70 and at most 39.
func IBKRStockFixed(f num.Factory) TieredCost {
	return TieredCost{
		Rate: f.NumOf(0.0005),
		Min:  f.NumOf(1.70),
		Max:  f.NumOfInt(39),
	}
}

// IBKRForexTier1 is 0.20 basis points of the trade value with a 2.00
// minimum and no cap.
func IBKRForexTier1(f num.Factory) TieredCost {
	return TieredCost{
		Rate: f.NumOf(0.00002),
		Min:  f.Two(),
		Max:  num.NaN,
	}
}
