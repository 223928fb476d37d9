package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"toca/internal/core"
)

func TestAddStudentAssignsUniqueIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := s.AddStudent(ctx, core.Student{
			FullName: "Aluno Teste",
			Status:   core.StudentActive,
			Plan:     "2x por semana",
		})
		if err != nil {
			t.Fatalf("AddStudent: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if !seen["s1"] || !seen["s2"] || !seen["s3"] {
		t.Fatalf("unexpected id set: %v", seen)
	}
}

func TestSeededIDsDoNotCollide(t *testing.T) {
	s := NewSeeded(time.Now())
	ctx := context.Background()
	id, err := s.AddStudent(ctx, core.Student{FullName: "Novo Aluno", Status: core.StudentTrial, Plan: "Experimental"})
	if err != nil {
		t.Fatalf("AddStudent: %v", err)
	}
	if id != "s6" {
		t.Fatalf("got id %q, want s6", id)
	}
	students, err := s.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	seen := map[string]bool{}
	for _, st := range students {
		if seen[st.ID] {
			t.Fatalf("duplicate id %q after seeding", st.ID)
		}
		seen[st.ID] = true
	}
}

func TestAddAppointmentRejectsDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := core.Appointment{StudentID: "s1", Day: "Segunda", Time: "08:00"}
	if _, err := s.AddAppointment(ctx, a); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := s.AddAppointment(ctx, a); !errors.Is(err, core.ErrDuplicateAppointment) {
		t.Fatalf("got %v, want ErrDuplicateAppointment", err)
	}
	appts, err := s.ListAppointments(ctx)
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("got %d appointments, want 1", len(appts))
	}
}

func TestAddAppointmentSameSlotOtherStudent(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.AddAppointment(ctx, core.Appointment{StudentID: "s1", Day: "Segunda", Time: "08:00"}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := s.AddAppointment(ctx, core.Appointment{StudentID: "s2", Day: "Segunda", Time: "08:00"}); err != nil {
		t.Fatalf("second student same slot: %v", err)
	}
}

func TestAddValidates(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.AddStudent(ctx, core.Student{Status: core.StudentActive}); !errors.Is(err, core.ErrEmptyFullName) {
		t.Fatalf("got %v, want ErrEmptyFullName", err)
	}
	if _, err := s.AddExpense(ctx, core.Expense{Description: "Luz", Amount: core.Money{Cents: 0}, DueDate: core.NewDate(2024, 7, 1), Category: core.CategoryBills, Status: core.ExpensePending}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
}

func TestSeedContents(t *testing.T) {
	now := time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC)
	s := NewSeeded(now)
	ctx := context.Background()

	students, _ := s.ListStudents(ctx)
	if len(students) != 5 {
		t.Fatalf("got %d students, want 5", len(students))
	}
	payments, _ := s.ListPayments(ctx)
	if len(payments) != 6 {
		t.Fatalf("got %d payments, want 6", len(payments))
	}
	expenses, _ := s.ListExpenses(ctx)
	if len(expenses) != 5 {
		t.Fatalf("got %d expenses, want 5", len(expenses))
	}
	for _, e := range expenses {
		if e.ID == "e5" {
			if e.DueDate.Month() != 6 || e.DueDate.Year() != 2024 {
				t.Fatalf("e5 due %v, want previous month", e.DueDate)
			}
		}
	}
	instructors, _ := s.ListInstructors(ctx)
	if len(instructors) != 4 {
		t.Fatalf("got %d instructors, want 4", len(instructors))
	}

	st, err := s.GetStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("GetStudent s1: %v", err)
	}
	if st.FullName != "Ana Silva" || len(st.ScheduledClasses) != 2 {
		t.Fatalf("unexpected s1: %+v", st)
	}
	if _, err := s.GetStudent(ctx, "s99"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
