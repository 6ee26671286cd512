package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Stored amounts stay plain JSON numbers so existing backups keep their shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// AssetType classifies entries in the asset list.
type AssetType string

const (
	AssetTypeCash       AssetType = "CASH"
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeFund       AssetType = "FUND"
	AssetTypeRealEstate AssetType = "REAL_ESTATE"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeDebt       AssetType = "DEBT"
	AssetTypeOther      AssetType = "OTHER"
)

// AssetTypes lists every asset type in display order.
var AssetTypes = []AssetType{
	AssetTypeCash,
	AssetTypeStock,
	AssetTypeFund,
	AssetTypeRealEstate,
	AssetTypeCrypto,
	AssetTypeDebt,
	AssetTypeOther,
}

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	for _, v := range AssetTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Asset is one row of the ft_assets list.
//
// For DEBT assets with StartDate and OriginalAmount set, Amount is a cached
// value derived from the loan parameters; otherwise Amount is authoritative.
type Asset struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           AssetType        `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	OriginalAmount *decimal.Decimal `json:"originalAmount,omitempty"`
	Currency       string           `json:"currency,omitempty"`
	ExchangeRate   decimal.Decimal  `json:"exchangeRate"`
	LastUpdated    int64            `json:"lastUpdated"` // unix millis

	// Debt specific.
	StartDate          string   `json:"startDate,omitempty"` // YYYY-MM-DD
	InterestRate       *float64 `json:"interestRate,omitempty"`
	TermYears          *float64 `json:"termYears,omitempty"`
	PaidYears          *float64 `json:"paidYears,omitempty"` // superseded by StartDate, kept for old data
	InterestOnlyPeriod *float64 `json:"interestOnlyPeriod,omitempty"`
}

// IsDebt reports whether the asset counts as a liability.
func (a Asset) IsDebt() bool {
	return a.Type == AssetTypeDebt
}

// AutoCalculated reports whether the balance is derived from loan parameters
// rather than entered by hand.
func (a Asset) AutoCalculated() bool {
	return a.IsDebt() && a.StartDate != "" && a.OriginalAmount != nil && !a.OriginalAmount.IsZero()
}
