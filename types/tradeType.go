package types

import (
	"fmt"
	"strings"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// Complement returns the trade type that closes a position opened by t.
func (t TradeType) Complement() TradeType {
	if t == TradeTypeBuy {
		return TradeTypeSell
	}
	return TradeTypeBuy
}

func ParseTradeType(s string) (TradeType, error) {
	switch TradeType(strings.ToUpper(strings.TrimSpace(s))) {
	case TradeTypeBuy:
		return TradeTypeBuy, nil
	case TradeTypeSell:
		return TradeTypeSell, nil
	}
	return "", fmt.Errorf("unknown trade type %q", s)
}
