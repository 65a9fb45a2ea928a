// Package fee derives fee totals from a student's fee items and records payments.
package fee

import "github.com/trezcool/campus/core/user"

// Summary is derived from the stored items and never saved. Paid + Pending == Total
// holds exactly since amounts are whole rupees.
type Summary struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

// Summarize totals every stored item, applicable or not.
func Summarize(s user.Student) Summary {
	var sum Summary
	for _, f := range s.Fees {
		sum.Total += f.Amount
		if f.IsPaid() {
			sum.Paid += f.Amount
		}
	}
	sum.Pending = sum.Total - sum.Paid
	return sum
}

// Applicable reports whether a category concerns students of the given type.
// Day scholars have no hostel or mess fees and hostellers no bus fee.
func Applicable(studentType, category string) bool {
	switch studentType {
	case user.DayScholar:
		return category != user.FeeHostel && category != user.FeeMess
	case user.Hosteller:
		return category != user.FeeBus
	}
	return true
}

// ApplicableCategories filters the fixed category list for a student type.
func ApplicableCategories(studentType string) []string {
	cats := make([]string, 0, len(user.FeeCategories))
	for _, c := range user.FeeCategories {
		if Applicable(studentType, c) {
			cats = append(cats, c)
		}
	}
	return cats
}

// ApplicableFees returns the stored items a student may see and pay. The stored list is untouched.
func ApplicableFees(s user.Student) []user.FeeItem {
	items := make([]user.FeeItem, 0, len(s.Fees))
	for _, f := range s.Fees {
		if Applicable(s.StudentType, f.Type) {
			items = append(items, f)
		}
	}
	return items
}

// normalize returns one item per category, in category order. Unknown categories are dropped.
func normalize(fees []user.FeeItem) []user.FeeItem {
	byType := make(map[string]user.FeeItem, len(fees))
	for _, f := range fees {
		byType[f.Type] = f
	}
	items := make([]user.FeeItem, 0, len(user.FeeCategories))
	for _, c := range user.FeeCategories {
		if f, ok := byType[c]; ok {
			items = append(items, f)
		} else {
			items = append(items, user.FeeItem{Type: c, Amount: 0, Status: user.FeeUnpaid})
		}
	}
	return items
}

func isCategory(category string) bool {
	for _, c := range user.FeeCategories {
		if c == category {
			return true
		}
	}
	return false
}
