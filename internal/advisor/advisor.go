package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/fintrack-dev/fintrack/internal/budget"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Caller sends a prompt and returns the model's JSON answer, shaped by
// schema. A nil result or an error means no answer.
type Caller interface {
	Call(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
}

// AverageMonths is the spending window used for budget suggestions.
const AverageMonths = 3

// BudgetSchema describes the expected answer: [{category, limit}].
var BudgetSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString},
			"limit":    {Type: genai.TypeNumber},
		},
		Required: []string{"category", "limit"},
	},
}

type fixedExpense struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// BudgetPrompt builds the prompt for SuggestBudgets.
func BudgetPrompt(txns []model.Transaction, items []model.RecurringItem, current []model.BudgetConfig, today time.Time) (string, error) {
	avg := budget.MonthlyAverages(txns, today, AverageMonths)

	var fixed []fixedExpense
	for _, it := range items {
		if it.Type == model.EntryTypeExpense {
			fixed = append(fixed, fixedExpense{Name: it.Name, Category: it.Category, Amount: it.Amount})
		}
	}

	avgJSON, err := json.Marshal(avg)
	if err != nil {
		return "", err
	}
	fixedJSON, err := json.Marshal(fixed)
	if err != nil {
		return "", err
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Act as a strict financial advisor.\n\n")
	fmt.Fprintf(&b, "Based on the user's past %d-month average spending and fixed recurring expenses, ", AverageMonths)
	b.WriteString("suggest a healthy monthly budget limit for each category.\n\n")
	fmt.Fprintf(&b, "Monthly average spend (variable): %s\n", avgJSON)
	fmt.Fprintf(&b, "Fixed recurring expenses (monthly): %s\n", fixedJSON)
	fmt.Fprintf(&b, "Current budgets: %s\n\n", currentJSON)
	b.WriteString("Rules:\n")
	b.WriteString("1. Use the 50/30/20 rule as a reference: needs 50%, wants 30%, savings 20%.\n")
	b.WriteString("2. Suggest limits slightly below a high average to encourage saving, but keep fixed expenses fully covered.\n")
	fmt.Fprintf(&b, "3. Do not suggest a limit for %q.\n", budget.CategoryInvestment)
	b.WriteString("4. Only return categories that have spending or recurring items.\n\n")
	b.WriteString(`Return a JSON array of objects: [{"category": "Food", "limit": 12000}, ...]`)
	return b.String(), nil
}

// SuggestBudgets asks caller for monthly limits based on recent spending and
// fixed expenses. Suggestions for the investment category, blank categories
// and non-positive limits are dropped; limits are rounded to whole units.
func SuggestBudgets(ctx context.Context, caller Caller, txns []model.Transaction, items []model.RecurringItem, current []model.BudgetConfig, today time.Time) ([]model.BudgetConfig, error) {
	prompt, err := BudgetPrompt(txns, items, current, today)
	if err != nil {
		return nil, fmt.Errorf("advisor: building prompt: %w", err)
	}

	raw, err := caller.Call(ctx, prompt, BudgetSchema)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("advisor: no answer from model")
	}

	var suggested []model.BudgetConfig
	if err := json.Unmarshal(raw, &suggested); err != nil {
		return nil, fmt.Errorf("advisor: decoding suggestions: %w", err)
	}

	out := suggested[:0]
	for _, s := range suggested {
		s.Category = strings.TrimSpace(s.Category)
		if s.Category == "" || s.Category == budget.CategoryInvestment || !s.Limit.IsPositive() {
			continue
		}
		s.Limit = s.Limit.Round(0)
		out = append(out, s)
	}
	return slices.Clip(out), nil
}

// ApplySuggestions merges suggested limits into current, replacing limits
// for the same category.
func ApplySuggestions(current, suggested []model.BudgetConfig) []model.BudgetConfig {
	out := current
	for _, s := range suggested {
		out = budget.Set(out, s.Category, s.Limit)
	}
	return out
}
