package memory

import (
	"time"

	"toca/internal/core"
)

// NewSeeded returns a store loaded with the studio's demo data. Expense,
// revenue and attendance dates are anchored on the month of now so the
// dashboard and the 6-month series always show recent activity.
func NewSeeded(now time.Time) *Store {
	s := New()
	y, m := now.Year(), int(now.Month())
	thisMonth := func(day int) core.Date { return core.NewDate(y, m, day) }
	lastMonth := func(day int) core.Date {
		t := time.Date(y, time.Month(m-1), day, 0, 0, 0, 0, time.UTC)
		return core.NewDate(t.Year(), int(t.Month()), t.Day())
	}
	ptr := func(d core.Date) *core.Date { return &d }

	s.instructors = []core.Instructor{
		{ID: "i1", Name: "Juliana"},
		{ID: "i2", Name: "Rafael"},
		{ID: "i3", Name: "Beatriz"},
		{ID: "i4", Name: "Lucas"},
	}

	s.students = []core.Student{
		{
			ID: "s1", FullName: "Ana Silva", Email: "ana.silva@example.com", Phone: "(11) 98765-4321",
			JoinDate: core.NewDate(2023, 1, 15), Status: core.StudentActive, Plan: "2x por semana",
			NextDueDate: core.NewDate(2024, 7, 10), PreferredInstructorID: "i1",
			ScheduledClasses: []core.ScheduledClass{{Day: "Segunda", Time: "08:00"}, {Day: "Quarta", Time: "08:00"}},
		},
		{
			ID: "s2", FullName: "Bruno Costa", Email: "bruno.costa@example.com", Phone: "(21) 91234-5678",
			JoinDate: core.NewDate(2023, 3, 22), Status: core.StudentActive, Plan: "3x por semana",
			NextDueDate: core.NewDate(2024, 7, 15), PreferredInstructorID: "i2",
			ScheduledClasses: []core.ScheduledClass{{Day: "Terça", Time: "18:00"}, {Day: "Quinta", Time: "18:00"}, {Day: "Sexta", Time: "18:00"}},
		},
		{
			ID: "s3", FullName: "Carla Dias", Email: "carla.dias@example.com", Phone: "(31) 99999-8888",
			JoinDate: core.NewDate(2023, 5, 10), Status: core.StudentInactive, Plan: "2x por semana",
			NextDueDate: core.NewDate(2024, 5, 5),
		},
		{
			ID: "s4", FullName: "Daniel Rocha", Email: "daniel.rocha@example.com", Phone: "(41) 98888-7777",
			JoinDate: core.NewDate(2024, 2, 1), Status: core.StudentActive, Plan: "1x por semana",
			NextDueDate: core.NewDate(2024, 7, 20),
			ScheduledClasses: []core.ScheduledClass{{Day: "Quinta", Time: "10:00"}},
		},
		{
			ID: "s5", FullName: "Eduarda Lima", Email: "eduarda.lima@example.com", Phone: "(51) 97777-6666",
			JoinDate: core.NewDate(2024, 6, 20), Status: core.StudentTrial, Plan: "Experimental",
			NextDueDate: core.NewDate(2024, 7, 25),
		},
	}
	s.bumpCounter("s", 5)

	s.payments = []core.Payment{
		{ID: "p1", StudentID: "s1", Amount: core.Money{Cents: 30000}, DueDate: core.NewDate(2024, 6, 10), PaymentDate: ptr(core.NewDate(2024, 6, 8)), Status: core.PaymentPaid},
		{ID: "p2", StudentID: "s2", Amount: core.Money{Cents: 40000}, DueDate: core.NewDate(2024, 6, 15), PaymentDate: ptr(core.NewDate(2024, 6, 15)), Status: core.PaymentPaid},
		{ID: "p3", StudentID: "s3", Amount: core.Money{Cents: 30000}, DueDate: core.NewDate(2024, 5, 5), Status: core.PaymentOverdue},
		{ID: "p4", StudentID: "s4", Amount: core.Money{Cents: 20000}, DueDate: core.NewDate(2024, 6, 20), PaymentDate: ptr(core.NewDate(2024, 6, 20)), Status: core.PaymentPaid},
		{ID: "p5", StudentID: "s1", Amount: core.Money{Cents: 30000}, DueDate: core.NewDate(2024, 7, 10), Status: core.PaymentPending},
		{ID: "p6", StudentID: "s2", Amount: core.Money{Cents: 40000}, DueDate: core.NewDate(2024, 7, 15), Status: core.PaymentPending},
	}
	s.bumpCounter("p", 6)

	s.expenses = []core.Expense{
		{ID: "e1", Description: "Aluguel do Espaço", Amount: core.Money{Cents: 250000}, DueDate: thisMonth(5), Category: core.CategoryRent, Status: core.ExpensePaid, PaymentDate: ptr(thisMonth(3))},
		{ID: "e2", Description: "Salário Instrutor A", Amount: core.Money{Cents: 300000}, DueDate: thisMonth(7), Category: core.CategorySalaries, Status: core.ExpensePaid, PaymentDate: ptr(thisMonth(6))},
		{ID: "e3", Description: "Conta de Luz", Amount: core.Money{Cents: 45000}, DueDate: thisMonth(20), Category: core.CategoryBills, Status: core.ExpensePending},
		{ID: "e4", Description: "Marketing Digital", Amount: core.Money{Cents: 60000}, DueDate: thisMonth(15), Category: core.CategoryMarketing, Status: core.ExpensePending},
		{ID: "e5", Description: "Manutenção de Equipamentos", Amount: core.Money{Cents: 35000}, DueDate: lastMonth(25), Category: core.CategoryEquipment, Status: core.ExpensePaid, PaymentDate: ptr(lastMonth(24))},
	}
	s.bumpCounter("e", 5)

	s.revenues = []core.OtherRevenue{
		{ID: "r1", Description: "Venda de produtos", Amount: core.Money{Cents: 25000}, Date: thisMonth(18)},
		{ID: "r2", Description: "Workshop de Fim de Semana", Amount: core.Money{Cents: 120000}, Date: lastMonth(28)},
	}
	s.bumpCounter("r", 2)

	s.appts = []core.Appointment{
		{ID: "a1", StudentID: "s1", Day: "Segunda", Time: "08:00"},
		{ID: "a2", StudentID: "s2", Day: "Terça", Time: "18:00"},
		{ID: "a3", StudentID: "s4", Day: "Quinta", Time: "10:00"},
		{ID: "a4", StudentID: "s1", Day: "Quarta", Time: "08:00"},
	}
	s.bumpCounter("a", 4)

	s.attendance = []core.AttendanceRecord{
		{ID: "att1", StudentID: "s1", Date: thisMonth(3), Status: core.Present},
		{ID: "att2", StudentID: "s1", Date: thisMonth(5), Status: core.Present},
		{ID: "att3", StudentID: "s1", Date: thisMonth(10), Status: core.Absent},
		{ID: "att4", StudentID: "s2", Date: thisMonth(4), Status: core.Present},
	}
	s.bumpCounter("att", 4)

	return s
}
