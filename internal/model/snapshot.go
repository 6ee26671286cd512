package model

import "github.com/shopspring/decimal"

// PortfolioSnapshot is one dated point of the net-worth history.
type PortfolioSnapshot struct {
	Date              string                        `json:"date"` // YYYY-MM-DD
	TotalAssets       decimal.Decimal               `json:"totalAssets"`
	TotalLiabilities  decimal.Decimal               `json:"totalLiabilities"`
	NetWorth          decimal.Decimal               `json:"netWorth"`
	AssetDistribution map[AssetType]decimal.Decimal `json:"assetDistribution"`
}

// BudgetConfig is a monthly spending limit for one category.
type BudgetConfig struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}
