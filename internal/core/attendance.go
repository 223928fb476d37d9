package core

import (
	"sort"
	"strconv"
)

// AttendanceSummary is the per-student view for the reference month.
type AttendanceSummary struct {
	MonthlyQuota int `json:"monthlyQuota"`
	Presences    int `json:"presences"`
	Absences     int `json:"absences"`
	Remaining    int `json:"remaining"`
}

// WeeklyClasses extracts the contracted weekly class count from a plan
// string such as "2x por semana". Only the leading rune is inspected; a
// plan without a leading digit (e.g. "Experimental") yields 0.
func WeeklyClasses(plan string) int {
	if plan == "" {
		return 0
	}
	n, err := strconv.Atoi(plan[:1])
	if err != nil {
		return 0
	}
	return n
}

// MonthlyQuota is the monthly class allowance: weekly count times four.
// Months with five occurrences of a weekday are deliberately not
// accounted for; the studio bills on the 4-week approximation.
func MonthlyQuota(plan string) int {
	return WeeklyClasses(plan) * 4
}

// SummarizeAttendance computes the reference-month summary for one student
// from the full attendance list. Records for other students or other months
// are ignored; remaining never goes below zero.
func SummarizeAttendance(plan string, records []AttendanceRecord, studentID string, ref Date) AttendanceSummary {
	quota := MonthlyQuota(plan)
	sum := AttendanceSummary{MonthlyQuota: quota}
	for _, r := range records {
		if r.StudentID != studentID || !r.Date.SameMonth(ref) {
			continue
		}
		switch r.Status {
		case Present:
			sum.Presences++
		case Absent:
			sum.Absences++
		}
	}
	sum.Remaining = quota - sum.Presences
	if sum.Remaining < 0 {
		sum.Remaining = 0
	}
	return sum
}

// AttendanceHistory returns the student's records sorted newest first.
func AttendanceHistory(records []AttendanceRecord, studentID string) []AttendanceRecord {
	var out []AttendanceRecord
	for _, r := range records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// PaymentHistory returns the student's payments sorted by due date,
// newest first.
func PaymentHistory(payments []Payment, studentID string) []Payment {
	var out []Payment
	for _, p := range payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.After(out[j].DueDate.Time)
	})
	return out
}
