package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var today = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

// fakeCaller records the prompt and returns a canned answer.
type fakeCaller struct {
	answer string
	err    error
	prompt string
	schema *genai.Schema
}

func (f *fakeCaller) Call(_ context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	f.prompt = prompt
	f.schema = schema
	if f.err != nil {
		return nil, f.err
	}
	if f.answer == "" {
		return nil, nil
	}
	return json.RawMessage(f.answer), nil
}

func fixtures() ([]model.Transaction, []model.RecurringItem) {
	txns := []model.Transaction{
		{Date: "2025-01-10", Category: "Food", Amount: decimal.NewFromInt(9000), Type: model.EntryTypeExpense},
		{Date: "2025-02-10", Category: "Food", Amount: decimal.NewFromInt(12000), Type: model.EntryTypeExpense},
		{Date: "2025-03-10", Category: "Food", Amount: decimal.NewFromInt(15000), Type: model.EntryTypeExpense},
	}
	items := []model.RecurringItem{
		{ID: "rent", Name: "Rent", Category: "Housing", Amount: decimal.NewFromInt(18000), Type: model.EntryTypeExpense},
		{ID: "salary", Name: "Salary", Category: "Salary", Amount: decimal.NewFromInt(60000), Type: model.EntryTypeIncome},
	}
	return txns, items
}

func TestBudgetPrompt(t *testing.T) {
	txns, items := fixtures()
	prompt, err := BudgetPrompt(txns, items, nil, today)
	require.NoError(t, err)

	assert.Contains(t, prompt, `{"Food":12000}`)
	assert.Contains(t, prompt, `"name":"Rent"`)
	assert.NotContains(t, prompt, `"name":"Salary"`)
	assert.Contains(t, prompt, `"Investment"`)
	assert.Contains(t, prompt, "Current budgets: null")
}

func TestSuggestBudgets(t *testing.T) {
	txns, items := fixtures()
	caller := &fakeCaller{answer: `[
		{"category": "Food", "limit": 11000.4},
		{"category": "Housing", "limit": 18000},
		{"category": "Investment", "limit": 5000},
		{"category": " ", "limit": 100},
		{"category": "Fun", "limit": 0}
	]`}

	got, err := SuggestBudgets(context.Background(), caller, txns, items, nil, today)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Category)
	assert.True(t, got[0].Limit.Equal(decimal.NewFromInt(11000)))
	assert.Equal(t, "Housing", got[1].Category)
	assert.Same(t, BudgetSchema, caller.schema)
	assert.NotEmpty(t, caller.prompt)
}

func TestSuggestBudgets_Failures(t *testing.T) {
	txns, items := fixtures()
	boom := errors.New("quota")

	_, err := SuggestBudgets(context.Background(), &fakeCaller{err: boom}, txns, items, nil, today)
	assert.ErrorIs(t, err, boom)

	_, err = SuggestBudgets(context.Background(), &fakeCaller{}, txns, items, nil, today)
	assert.Error(t, err)

	_, err = SuggestBudgets(context.Background(), &fakeCaller{answer: `{"category": "Food"}`}, txns, items, nil, today)
	assert.Error(t, err)
}

func TestApplySuggestions(t *testing.T) {
	current := []model.BudgetConfig{
		{Category: "Food", Limit: decimal.NewFromInt(15000)},
		{Category: "Bills", Limit: decimal.NewFromInt(3000)},
	}
	got := ApplySuggestions(current, []model.BudgetConfig{{Category: "Food", Limit: decimal.NewFromInt(12000)}})
	require.Len(t, got, 2)
	assert.Equal(t, "Bills", got[0].Category)
	assert.True(t, got[1].Limit.Equal(decimal.NewFromInt(12000)))
}

func TestCleanModelJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n[{\"a\":1}]\n```":          `[{"a":1}]`,
		"Here you go: [1, 2]. Enjoy":         `[1, 2]`,
		"  {\"k\": [1]}  ":                   `{"k": [1]}`,
		"no json here":                       "no json here",
		"```\n{\"x\": \"y\"}\n```\ntrailing": `{"x": "y"}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanModelJSON(in), in)
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
