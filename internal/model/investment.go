package model

import "github.com/shopspring/decimal"

// StockPosition is one holding inside a StockSnapshot. MarketValue,
// UnrealizedPL and ReturnRate are stored as computed when the snapshot was
// taken.
type StockPosition struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Shares       decimal.Decimal `json:"shares"`
	Cost         decimal.Decimal `json:"cost"` // average cost per share
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"`
	UnrealizedPL decimal.Decimal `json:"unrealizedPL"`
	ReturnRate   decimal.Decimal `json:"returnRate"` // percent

	DividendYield     *decimal.Decimal `json:"dividendYield,omitempty"`
	DividendAmount    *decimal.Decimal `json:"dividendAmount,omitempty"`
	DividendFrequency string           `json:"dividendFrequency,omitempty"`
}

// StockSnapshot is one dated entry of the ft_stock_snapshots log.
type StockSnapshot struct {
	ID                string          `json:"id"`
	Date              string          `json:"date"` // YYYY-MM-DD
	Timestamp         int64           `json:"timestamp"`
	TotalMarketValue  decimal.Decimal `json:"totalMarketValue"`
	TotalUnrealizedPL decimal.Decimal `json:"totalUnrealizedPL"`
	Positions         []StockPosition `json:"positions"`
}
