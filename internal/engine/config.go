package engine

import (
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
)

type ExecutionConfig struct {
	amount       num.Num
	tradeType    types.TradeType
	costModel    trading.CostModel
	workers      int
	showProgress bool
}

// NewExecutionConfig sets the amount traded on every entry and exit, the
// type of entries, the cost model and how many strategies are evaluated in
// parallel per bar. A nil cost model means no costs.
func NewExecutionConfig(amount num.Num, tradeType types.TradeType, costModel trading.CostModel, workers int, showProgress bool) *ExecutionConfig {
	if costModel == nil {
		costModel = trading.ZeroCost{}
	}
	return &ExecutionConfig{
		amount:       amount,
		tradeType:    tradeType,
		costModel:    costModel,
		workers:      workers,
		showProgress: showProgress,
	}
}

type ReportingConfig struct {
	riskFreeRate float64
	printTrades  bool
	reportName   string
	filePath     string
}

func NewReportingConfig(riskFreeRate float64, printTrades bool, reportName string, filePath string) *ReportingConfig {
	return &ReportingConfig{
		riskFreeRate: riskFreeRate,
		printTrades:  printTrades,
		reportName:   reportName,
		filePath:     filePath,
	}
}
