// Package store defines the ports every data backend implements.
package store

import (
	"context"

	"toca/internal/core"
)

type (
	StudentStore interface {
		// AddStudent assigns an id and appends the student, returning the id.
		AddStudent(ctx context.Context, s core.Student) (string, error)
		ListStudents(ctx context.Context) ([]core.Student, error)
		// GetStudent returns core.ErrNotFound for unknown ids.
		GetStudent(ctx context.Context, id string) (core.Student, error)
	}

	PaymentStore interface {
		AddPayment(ctx context.Context, p core.Payment) (string, error)
		ListPayments(ctx context.Context) ([]core.Payment, error)
	}

	ExpenseStore interface {
		AddExpense(ctx context.Context, e core.Expense) (string, error)
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	RevenueStore interface {
		AddOtherRevenue(ctx context.Context, r core.OtherRevenue) (string, error)
		ListOtherRevenues(ctx context.Context) ([]core.OtherRevenue, error)
	}

	AppointmentStore interface {
		// AddAppointment returns core.ErrDuplicateAppointment when the same
		// student already holds the same (day, time) slot.
		AddAppointment(ctx context.Context, a core.Appointment) (string, error)
		ListAppointments(ctx context.Context) ([]core.Appointment, error)
	}

	InstructorStore interface {
		ListInstructors(ctx context.Context) ([]core.Instructor, error)
	}

	AttendanceStore interface {
		AddAttendance(ctx context.Context, a core.AttendanceRecord) (string, error)
		ListAttendance(ctx context.Context) ([]core.AttendanceRecord, error)
	}

	// Store is the full set of collections the dashboard reads and writes.
	Store interface {
		StudentStore
		PaymentStore
		ExpenseStore
		RevenueStore
		AppointmentStore
		InstructorStore
		AttendanceStore
	}
)
