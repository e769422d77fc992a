package core

// OtherCategory is the label used for uncategorised amounts and for the
// collapsed tail of category rollups.
const OtherCategory = "Other"

// CategorySuggestions lists the categories offered to the user per record kind.
// Categories remain free text; these are hints only.
type CategorySuggestions struct {
	Income     []string `json:"income"`
	Expense    []string `json:"expense"`
	Receivable []string `json:"receivable"`
}

func SuggestedCategories() CategorySuggestions {
	return CategorySuggestions{
		Income: []string{
			"Salary", "Freelance", "Investments", "Sales", "Gifts", "Refunds", OtherCategory,
		},
		Expense: []string{
			"Food", "Housing", "Transport", "Health", "Education", "Leisure",
			"Clothing", "Services", "Subscriptions", "Taxes", OtherCategory,
		},
		Receivable: []string{
			"Salary", "Freelance", "Investments", "Sales", "Refunds", "Loans", OtherCategory,
		},
	}
}
