package assets

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Service provides in-memory lookup and aggregation over the asset list.
type Service struct {
	assets []model.Asset
	byID   map[string]int
}

// NewService creates a Service from a slice of assets.
func NewService(assets []model.Asset) *Service {
	byID := make(map[string]int, len(assets))
	for i, a := range assets {
		byID[a.ID] = i
	}
	return &Service{assets: assets, byID: byID}
}

// All returns all assets.
func (s *Service) All() []model.Asset {
	return s.assets
}

// Get returns an asset by ID.
func (s *Service) Get(id string) (model.Asset, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Asset{}, false
	}
	return s.assets[i], true
}

// OfType returns the assets of type t in list order.
func (s *Service) OfType(t model.AssetType) []model.Asset {
	var result []model.Asset
	for _, a := range s.assets {
		if a.Type == t {
			result = append(result, a)
		}
	}
	return result
}

// Group is the slice of the asset list sharing one type.
type Group struct {
	Type   model.AssetType
	Assets []model.Asset
	Total  decimal.Decimal
}

// Breakdown groups the list by type in model.AssetTypes order. Types with no
// assets are left out.
func (s *Service) Breakdown() []Group {
	var groups []Group
	for _, t := range model.AssetTypes {
		list := s.OfType(t)
		if len(list) == 0 {
			continue
		}
		total := decimal.Zero
		for _, a := range list {
			total = total.Add(a.Amount)
		}
		groups = append(groups, Group{Type: t, Assets: list, Total: total})
	}
	return groups
}

// ErrNotFound is returned when an asset ID is not in the list.
var ErrNotFound = errors.New("asset not found")

// Replace returns a copy of list with the asset sharing updated's ID
// replaced by updated.
func Replace(list []model.Asset, updated model.Asset) ([]model.Asset, error) {
	out := slices.Clone(list)
	i := slices.IndexFunc(out, func(a model.Asset) bool { return a.ID == updated.ID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, updated.ID)
	}
	out[i] = updated
	return out, nil
}

// Remove returns a copy of list without the asset id.
func Remove(list []model.Asset, id string) ([]model.Asset, error) {
	i := slices.IndexFunc(list, func(a model.Asset) bool { return a.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return slices.Delete(slices.Clone(list), i, i+1), nil
}

// Loans returns the debts whose balance is derived from loan parameters.
func (s *Service) Loans() []model.Asset {
	var result []model.Asset
	for _, a := range s.assets {
		if a.AutoCalculated() {
			result = append(result, a)
		}
	}
	return result
}

// Totals aggregates the asset list.
type Totals struct {
	Assets       decimal.Decimal
	Liabilities  decimal.Decimal
	NetWorth     decimal.Decimal
	Distribution map[model.AssetType]decimal.Decimal
}

// Totals sums Amount over non-debt assets and over debts separately.
func (s *Service) Totals() Totals {
	t := Totals{
		Assets:       decimal.Zero,
		Liabilities:  decimal.Zero,
		Distribution: make(map[model.AssetType]decimal.Decimal),
	}
	for _, a := range s.assets {
		if a.IsDebt() {
			t.Liabilities = t.Liabilities.Add(a.Amount)
		} else {
			t.Assets = t.Assets.Add(a.Amount)
		}
		t.Distribution[a.Type] = t.Distribution[a.Type].Add(a.Amount)
	}
	t.NetWorth = t.Assets.Sub(t.Liabilities)
	return t
}
