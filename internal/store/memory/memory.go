// Package memory is the default backend: mutex-guarded in-memory
// collections, reset to the seed on every process start.
package memory

import (
	"context"
	"strconv"
	"sync"

	"toca/internal/core"
)

type Store struct {
	mu sync.Mutex

	students    []core.Student
	payments    []core.Payment
	expenses    []core.Expense
	revenues    []core.OtherRevenue
	appts       []core.Appointment
	instructors []core.Instructor
	attendance  []core.AttendanceRecord

	// Monotonic per-collection counters. Ids survive hypothetical removals,
	// unlike the collection-length scheme this replaces.
	counters map[string]int
}

// New returns an empty store.
func New() *Store {
	return &Store{counters: make(map[string]int)}
}

func (s *Store) nextID(prefix string) string {
	s.counters[prefix]++
	return prefix + strconv.Itoa(s.counters[prefix])
}

// bumpCounter makes sure generated ids never collide with seeded ones.
func (s *Store) bumpCounter(prefix string, n int) {
	if s.counters[prefix] < n {
		s.counters[prefix] = n
	}
}

func (s *Store) AddStudent(_ context.Context, st core.Student) (string, error) {
	if err := st.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = s.nextID("s")
	s.students = append(s.students, st)
	return st.ID, nil
}

func (s *Store) ListStudents(_ context.Context) ([]core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Student(nil), s.students...), nil
}

func (s *Store) GetStudent(_ context.Context, id string) (core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.ID == id {
			return st, nil
		}
	}
	return core.Student{}, core.ErrNotFound
}

func (s *Store) AddPayment(_ context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("p")
	s.payments = append(s.payments, p)
	return p.ID, nil
}

func (s *Store) ListPayments(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Payment(nil), s.payments...), nil
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID("e")
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) AddOtherRevenue(_ context.Context, r core.OtherRevenue) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID("r")
	s.revenues = append(s.revenues, r)
	return r.ID, nil
}

func (s *Store) ListOtherRevenues(_ context.Context) ([]core.OtherRevenue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.OtherRevenue(nil), s.revenues...), nil
}

// AddAppointment enforces the per-student duplicate check at insert time.
// Different students may share a slot; physical capacity is not modeled.
func (s *Store) AddAppointment(_ context.Context, a core.Appointment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.appts {
		if existing.Day == a.Day && existing.Time == a.Time && existing.StudentID == a.StudentID {
			return "", core.ErrDuplicateAppointment
		}
	}
	a.ID = s.nextID("a")
	s.appts = append(s.appts, a)
	return a.ID, nil
}

func (s *Store) ListAppointments(_ context.Context) ([]core.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Appointment(nil), s.appts...), nil
}

func (s *Store) ListInstructors(_ context.Context) ([]core.Instructor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Instructor(nil), s.instructors...), nil
}

func (s *Store) AddAttendance(_ context.Context, a core.AttendanceRecord) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID("att")
	s.attendance = append(s.attendance, a)
	return a.ID, nil
}

func (s *Store) ListAttendance(_ context.Context) ([]core.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.AttendanceRecord(nil), s.attendance...), nil
}
