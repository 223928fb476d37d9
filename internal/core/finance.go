package core

import "time"

// monthsInSeries is the size of the trailing financial window shown on the
// dashboard and the financial overview.
const monthsInSeries = 6

var monthLabels = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

type (
	// MonthFinancials is one bucket of the trailing series. Revenue counts
	// paid tuition (by payment date) plus other revenues (by date); expense
	// counts paid expenses by payment date.
	MonthFinancials struct {
		Year    int    `json:"year"`
		Month   int    `json:"month"`
		Label   string `json:"label"`
		Revenue Money  `json:"revenueCents"`
		Expense Money  `json:"expenseCents"`
		Profit  Money  `json:"profitCents"`
	}

	// FinanceTotals are the realized all-time totals on the overview tab.
	FinanceTotals struct {
		Revenue Money `json:"revenueCents"`
		Expense Money `json:"expenseCents"`
		Profit  Money `json:"profitCents"`
	}

	// DashboardStats are the headline cards on the landing page.
	DashboardStats struct {
		ActiveStudents     int   `json:"activeStudents"`
		PendingReceivables Money `json:"pendingReceivablesCents"`
		MonthRevenue       Money `json:"monthRevenueCents"`
		MonthExpense       Money `json:"monthExpenseCents"`
	}
)

// MonthLabel returns the pt-BR short month name for a 1-12 month.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthLabels[month-1]
}

// MonthlySeries buckets the ledgers into the six months ending at ref,
// oldest first. Bucketing compares both month and year so that December
// and the following January never collide.
func MonthlySeries(payments []Payment, expenses []Expense, revenues []OtherRevenue, ref Date) []MonthFinancials {
	series := make([]MonthFinancials, 0, monthsInSeries)
	for i := monthsInSeries - 1; i >= 0; i-- {
		first := time.Date(ref.Year(), time.Month(ref.Month()-i), 1, 0, 0, 0, 0, time.UTC)
		bucket := NewDate(first.Year(), int(first.Month()), 1)

		m := MonthFinancials{
			Year:  bucket.Year(),
			Month: bucket.Month(),
			Label: MonthLabel(bucket.Month()),
		}
		for _, p := range payments {
			if p.Status == PaymentPaid && p.PaymentDate != nil && p.PaymentDate.SameMonth(bucket) {
				m.Revenue.Cents += p.Amount.Cents
			}
		}
		for _, r := range revenues {
			if r.Date.SameMonth(bucket) {
				m.Revenue.Cents += r.Amount.Cents
			}
		}
		for _, e := range expenses {
			if e.Status == ExpensePaid && e.PaymentDate != nil && e.PaymentDate.SameMonth(bucket) {
				m.Expense.Cents += e.Amount.Cents
			}
		}
		m.Profit.Cents = m.Revenue.Cents - m.Expense.Cents
		series = append(series, m)
	}
	return series
}

// RealizedTotals sums everything already paid, regardless of month.
func RealizedTotals(payments []Payment, expenses []Expense, revenues []OtherRevenue) FinanceTotals {
	var t FinanceTotals
	for _, p := range payments {
		if p.Status == PaymentPaid {
			t.Revenue.Cents += p.Amount.Cents
		}
	}
	for _, r := range revenues {
		t.Revenue.Cents += r.Amount.Cents
	}
	for _, e := range expenses {
		if e.Status == ExpensePaid {
			t.Expense.Cents += e.Amount.Cents
		}
	}
	t.Profit.Cents = t.Revenue.Cents - t.Expense.Cents
	return t
}

// ComputeDashboard derives the landing-page cards: active student count,
// total pending or overdue receivables, and the current month's realized
// revenue and expense.
func ComputeDashboard(students []Student, payments []Payment, expenses []Expense, revenues []OtherRevenue, ref Date) DashboardStats {
	var stats DashboardStats
	for _, s := range students {
		if s.Status == StudentActive {
			stats.ActiveStudents++
		}
	}
	for _, p := range payments {
		if p.Status == PaymentPending || p.Status == PaymentOverdue {
			stats.PendingReceivables.Cents += p.Amount.Cents
		}
	}
	series := MonthlySeries(payments, expenses, revenues, ref)
	current := series[len(series)-1]
	stats.MonthRevenue = current.Revenue
	stats.MonthExpense = current.Expense
	return stats
}
