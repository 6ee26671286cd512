package budget

// CategoryInvestment is excluded from budgets and spending analysis.
const CategoryInvestment = "Investment"

// ExpenseCategories returns the default expense categories in display order.
func ExpenseCategories() []string {
	return []string{
		"Food", "Transport", "Entertainment", "Shopping", "Housing", "Bills",
		"Medical", "Education", "Family", CategoryInvestment, "Other",
	}
}

// IncomeCategories returns the default income categories in display order.
func IncomeCategories() []string {
	return []string{"Salary", "Bonus", "Dividend", "Side Job", CategoryInvestment, "Other"}
}

// BudgetableCategories returns the expense categories a limit can be set on.
func BudgetableCategories() []string {
	var out []string
	for _, c := range ExpenseCategories() {
		if c != CategoryInvestment {
			out = append(out, c)
		}
	}
	return out
}
