package core

import "testing"

func TestWeeklyClasses(t *testing.T) {
	cases := []struct {
		plan string
		want int
	}{
		{"2x por semana", 2},
		{"3x por semana", 3},
		{"1x por semana", 1},
		{"Experimental", 0},
		{"", 0},
		{"x2 por semana", 0},
	}
	for _, tc := range cases {
		if got := WeeklyClasses(tc.plan); got != tc.want {
			t.Fatalf("%q: got %d want %d", tc.plan, got, tc.want)
		}
	}
}

func TestMonthlyQuota(t *testing.T) {
	if got := MonthlyQuota("2x por semana"); got != 8 {
		t.Fatalf("got %d want 8", got)
	}
	if got := MonthlyQuota("Experimental"); got != 0 {
		t.Fatalf("plan without leading digit must yield quota 0, got %d", got)
	}
}

func TestSummarizeAttendance(t *testing.T) {
	ref := NewDate(2024, 6, 15)
	records := []AttendanceRecord{
		{ID: "att1", StudentID: "s1", Date: NewDate(2024, 6, 3), Status: Present},
		{ID: "att2", StudentID: "s1", Date: NewDate(2024, 6, 5), Status: Present},
		{ID: "att3", StudentID: "s1", Date: NewDate(2024, 6, 10), Status: Absent},
		{ID: "att4", StudentID: "s2", Date: NewDate(2024, 6, 4), Status: Present},  // other student
		{ID: "att5", StudentID: "s1", Date: NewDate(2024, 5, 20), Status: Present}, // previous month
		{ID: "att6", StudentID: "s1", Date: NewDate(2023, 6, 20), Status: Present}, // same month, other year
	}

	sum := SummarizeAttendance("2x por semana", records, "s1", ref)
	if sum.MonthlyQuota != 8 {
		t.Fatalf("quota: got %d want 8", sum.MonthlyQuota)
	}
	if sum.Presences != 2 || sum.Absences != 1 {
		t.Fatalf("got %d presences, %d absences", sum.Presences, sum.Absences)
	}
	if sum.Remaining != 6 {
		t.Fatalf("remaining: got %d want 6", sum.Remaining)
	}
	if sum.Presences+sum.Absences > 3 {
		t.Fatalf("counted more records than exist in the month")
	}
}

func TestSummarizeAttendanceRemainingNeverNegative(t *testing.T) {
	ref := NewDate(2024, 6, 15)
	var records []AttendanceRecord
	for day := 1; day <= 10; day++ {
		records = append(records, AttendanceRecord{StudentID: "s1", Date: NewDate(2024, 6, day), Status: Present})
	}
	sum := SummarizeAttendance("1x por semana", records, "s1", ref)
	if sum.MonthlyQuota != 4 || sum.Presences != 10 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.Remaining != 0 {
		t.Fatalf("remaining must clamp at zero, got %d", sum.Remaining)
	}
}

func TestSummarizeAttendanceNoPlanDigit(t *testing.T) {
	ref := NewDate(2024, 6, 15)
	sum := SummarizeAttendance("Experimental", nil, "s5", ref)
	if sum.MonthlyQuota != 0 || sum.Remaining != 0 {
		t.Fatalf("expected zero quota and remaining, got %+v", sum)
	}
}

func TestAttendanceHistoryOrder(t *testing.T) {
	records := []AttendanceRecord{
		{ID: "a", StudentID: "s1", Date: NewDate(2024, 6, 3), Status: Present},
		{ID: "b", StudentID: "s1", Date: NewDate(2024, 6, 10), Status: Absent},
		{ID: "c", StudentID: "s2", Date: NewDate(2024, 6, 20), Status: Present},
	}
	got := AttendanceHistory(records, "s1")
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestPaymentHistoryOrder(t *testing.T) {
	payments := []Payment{
		{ID: "p1", StudentID: "s1", Amount: Money{Cents: 1}, DueDate: NewDate(2024, 6, 10), Status: PaymentPaid},
		{ID: "p5", StudentID: "s1", Amount: Money{Cents: 1}, DueDate: NewDate(2024, 7, 10), Status: PaymentPending},
		{ID: "p2", StudentID: "s2", Amount: Money{Cents: 1}, DueDate: NewDate(2024, 8, 1), Status: PaymentPending},
	}
	got := PaymentHistory(payments, "s1")
	if len(got) != 2 {
		t.Fatalf("got %d payments", len(got))
	}
	if got[0].ID != "p5" {
		t.Fatalf("expected newest due date first, got %s", got[0].ID)
	}
}
