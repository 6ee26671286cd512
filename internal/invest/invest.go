package invest

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/assets"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/period"
)

// AutoAssetName names the STOCK asset created when a snapshot is recorded
// and no STOCK asset exists yet.
const AutoAssetName = "Stock account (auto)"

var hundred = decimal.NewFromInt(100)

// NewPosition derives market value, unrealized P/L and return rate from
// shares, average cost and current price. The return rate is a percentage
// rounded to two places, zero when the cost basis is zero.
func NewPosition(symbol, name string, shares, cost, price decimal.Decimal) model.StockPosition {
	value := shares.Mul(price)
	basis := shares.Mul(cost)
	pl := value.Sub(basis)

	rate := decimal.Zero
	if !basis.IsZero() {
		rate = pl.Div(basis).Mul(hundred).Round(2)
	}
	return model.StockPosition{
		Symbol:       symbol,
		Name:         name,
		Shares:       shares,
		Cost:         cost,
		CurrentPrice: price,
		MarketValue:  value,
		UnrealizedPL: pl,
		ReturnRate:   rate,
	}
}

// ParsePosition reads one "symbol,name,shares,cost,price" record. Fields
// follow CSV quoting, so a name may contain commas when quoted.
func ParsePosition(s string) (model.StockPosition, error) {
	r := csv.NewReader(strings.NewReader(s))
	r.FieldsPerRecord = 5
	r.TrimLeadingSpace = true
	rec, err := r.Read()
	if err != nil {
		return model.StockPosition{}, fmt.Errorf("position %q: want symbol,name,shares,cost,price: %w", s, err)
	}

	symbol := strings.TrimSpace(rec[0])
	if symbol == "" {
		return model.StockPosition{}, fmt.Errorf("position %q: symbol is required", s)
	}
	nums := make([]decimal.Decimal, 3)
	for i, field := range []string{"shares", "cost", "price"} {
		d, err := decimal.NewFromString(strings.TrimSpace(rec[i+2]))
		if err != nil {
			return model.StockPosition{}, fmt.Errorf("position %q: parsing %s: %w", s, field, err)
		}
		if d.IsNegative() {
			return model.StockPosition{}, fmt.Errorf("position %q: %s must not be negative", s, field)
		}
		nums[i] = d
	}
	return NewPosition(symbol, strings.TrimSpace(rec[1]), nums[0], nums[1], nums[2]), nil
}

// NewSnapshot totals positions into a snapshot dated by now.
func NewSnapshot(id string, now time.Time, positions []model.StockPosition) model.StockSnapshot {
	snap := model.StockSnapshot{
		ID:                id,
		Date:              period.Day(now),
		Timestamp:         now.UnixMilli(),
		TotalMarketValue:  decimal.Zero,
		TotalUnrealizedPL: decimal.Zero,
		Positions:         positions,
	}
	for _, p := range positions {
		snap.TotalMarketValue = snap.TotalMarketValue.Add(p.MarketValue)
		snap.TotalUnrealizedPL = snap.TotalUnrealizedPL.Add(p.UnrealizedPL)
	}
	return snap
}

// Latest returns the most recently recorded snapshot.
func Latest(snaps []model.StockSnapshot) (model.StockSnapshot, bool) {
	if len(snaps) == 0 {
		return model.StockSnapshot{}, false
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Timestamp >= latest.Timestamp {
			latest = s
		}
	}
	return latest, true
}

// SyncAsset carries a snapshot's market value into the asset list. The first
// STOCK asset takes value as its amount; when there is none, a new STOCK
// asset is appended. It returns the new list and the asset written.
func SyncAsset(list []model.Asset, value decimal.Decimal, now time.Time, currency string, newID func() string) ([]model.Asset, model.Asset, error) {
	if stocks := assets.NewService(list).OfType(model.AssetTypeStock); len(stocks) > 0 {
		a := stocks[0]
		a.Amount = value
		a.LastUpdated = now.UnixMilli()
		out, err := assets.Replace(list, a)
		return out, a, err
	}

	a := model.Asset{
		ID:             newID(),
		Name:           AutoAssetName,
		Type:           model.AssetTypeStock,
		Amount:         value,
		OriginalAmount: &value,
		Currency:       currency,
		ExchangeRate:   decimal.NewFromInt(1),
		LastUpdated:    now.UnixMilli(),
	}
	return append(append([]model.Asset(nil), list...), a), a, nil
}
