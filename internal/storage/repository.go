// Package storage is the SQLite backend. Dates are stored as ISO-8601
// strings and money as integer cents, matching the domain types.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"toca/internal/core"
	applog "toca/internal/log"
	"toca/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// nextID bumps the per-prefix counter and returns the new prefixed id.
func nextID(ctx context.Context, tx *sql.Tx, prefix string) (string, error) {
	var value int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO id_counters (prefix, value) VALUES (?, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = value + 1
		RETURNING value`, prefix).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("next id for %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s%d", prefix, value), nil
}

func nullableDate(d *core.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.ISO(), Valid: true}
}

func scanDate(s string) (core.Date, error) {
	return core.ParseDate(s)
}

func scanNullableDate(ns sql.NullString) (*core.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := core.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *SQLiteRepository) AddStudent(ctx context.Context, s core.Student) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "s")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO students (id, full_name, email, phone, join_date, status, plan, next_due_date, preferred_instructor_id, observations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.FullName, s.Email, s.Phone, s.JoinDate.ISO(), string(s.Status), s.Plan,
		s.NextDueDate.ISO(), s.PreferredInstructorID, s.Observations)
	if err != nil {
		return "", fmt.Errorf("insert student: %w", err)
	}
	for _, sc := range s.ScheduledClasses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scheduled_classes (student_id, day, time) VALUES (?, ?, ?)`,
			id, sc.Day, sc.Time); err != nil {
			return "", fmt.Errorf("insert scheduled class: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "student saved",
		applog.FieldCollection, "students",
		applog.FieldRecordID, id)
	return id, nil
}

func (r *SQLiteRepository) ListStudents(ctx context.Context) ([]core.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, phone, join_date, status, plan, next_due_date, preferred_instructor_id, observations
		FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []core.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	for i := range students {
		classes, err := r.scheduledClasses(ctx, students[i].ID)
		if err != nil {
			return nil, err
		}
		students[i].ScheduledClasses = classes
	}
	return students, nil
}

func (r *SQLiteRepository) GetStudent(ctx context.Context, id string) (core.Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, phone, join_date, status, plan, next_due_date, preferred_instructor_id, observations
		FROM students WHERE id = ?`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Student{}, core.ErrNotFound
	}
	if err != nil {
		return core.Student{}, err
	}
	classes, err := r.scheduledClasses(ctx, s.ID)
	if err != nil {
		return core.Student{}, err
	}
	s.ScheduledClasses = classes
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (core.Student, error) {
	var s core.Student
	var joinDate, nextDue, status string
	if err := row.Scan(&s.ID, &s.FullName, &s.Email, &s.Phone, &joinDate, &status,
		&s.Plan, &nextDue, &s.PreferredInstructorID, &s.Observations); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Student{}, err
		}
		return core.Student{}, fmt.Errorf("scan student: %w", err)
	}
	var err error
	if s.JoinDate, err = scanDate(joinDate); err != nil {
		return core.Student{}, fmt.Errorf("student %s join date: %w", s.ID, err)
	}
	if s.NextDueDate, err = scanDate(nextDue); err != nil {
		return core.Student{}, fmt.Errorf("student %s next due date: %w", s.ID, err)
	}
	s.Status = core.StudentStatus(status)
	return s, nil
}

func (r *SQLiteRepository) scheduledClasses(ctx context.Context, studentID string) ([]core.ScheduledClass, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, time FROM scheduled_classes WHERE student_id = ?`, studentID)
	if err != nil {
		return nil, fmt.Errorf("scheduled classes for %s: %w", studentID, err)
	}
	defer rows.Close()

	var classes []core.ScheduledClass
	for rows.Next() {
		var sc core.ScheduledClass
		if err := rows.Scan(&sc.Day, &sc.Time); err != nil {
			return nil, fmt.Errorf("scan scheduled class: %w", err)
		}
		classes = append(classes, sc)
	}
	return classes, rows.Err()
}

func (r *SQLiteRepository) AddPayment(ctx context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "p")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, student_id, amount_cents, due_date, payment_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.StudentID, p.Amount.Cents, p.DueDate.ISO(), nullableDate(p.PaymentDate), string(p.Status))
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "payment saved",
		applog.FieldCollection, "payments",
		applog.FieldRecordID, id,
		applog.FieldStudentID, p.StudentID,
		applog.FieldAmountCents, p.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, amount_cents, due_date, payment_date, status
		FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		var p core.Payment
		var due string
		var paid sql.NullString
		var status string
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Amount.Cents, &due, &paid, &status); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.DueDate, err = scanDate(due); err != nil {
			return nil, fmt.Errorf("payment %s due date: %w", p.ID, err)
		}
		if p.PaymentDate, err = scanNullableDate(paid); err != nil {
			return nil, fmt.Errorf("payment %s payment date: %w", p.ID, err)
		}
		p.Status = core.PaymentStatus(status)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "e")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (id, description, amount_cents, due_date, category, status, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, e.Description, e.Amount.Cents, e.DueDate.ISO(), string(e.Category), string(e.Status), nullableDate(e.PaymentDate))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "expense saved",
		applog.FieldCollection, "expenses",
		applog.FieldRecordID, id,
		applog.FieldAmountCents, e.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, due_date, category, status, payment_date
		FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var due, category, status string
		var paid sql.NullString
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount.Cents, &due, &category, &status, &paid); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.DueDate, err = scanDate(due); err != nil {
			return nil, fmt.Errorf("expense %s due date: %w", e.ID, err)
		}
		if e.PaymentDate, err = scanNullableDate(paid); err != nil {
			return nil, fmt.Errorf("expense %s payment date: %w", e.ID, err)
		}
		e.Category = core.ExpenseCategory(category)
		e.Status = core.ExpenseStatus(status)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) AddOtherRevenue(ctx context.Context, rev core.OtherRevenue) (string, error) {
	if err := rev.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "r")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO other_revenues (id, description, amount_cents, date)
		VALUES (?, ?, ?, ?)`,
		id, rev.Description, rev.Amount.Cents, rev.Date.ISO())
	if err != nil {
		return "", fmt.Errorf("insert revenue: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "revenue saved",
		applog.FieldCollection, "revenues",
		applog.FieldRecordID, id,
		applog.FieldAmountCents, rev.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) ListOtherRevenues(ctx context.Context) ([]core.OtherRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, date FROM other_revenues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	defer rows.Close()

	var revenues []core.OtherRevenue
	for rows.Next() {
		var rev core.OtherRevenue
		var date string
		if err := rows.Scan(&rev.ID, &rev.Description, &rev.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		if rev.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("revenue %s date: %w", rev.ID, err)
		}
		revenues = append(revenues, rev)
	}
	return revenues, rows.Err()
}

func (r *SQLiteRepository) AddAppointment(ctx context.Context, a core.Appointment) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments WHERE student_id = ? AND day = ? AND time = ?`,
		a.StudentID, a.Day, a.Time).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("check duplicate appointment: %w", err)
	}
	if count > 0 {
		return "", core.ErrDuplicateAppointment
	}

	id, err := nextID(ctx, tx, "a")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (id, student_id, day, time) VALUES (?, ?, ?, ?)`,
		id, a.StudentID, a.Day, a.Time)
	if err != nil {
		return "", fmt.Errorf("insert appointment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "appointment saved",
		applog.FieldCollection, "appointments",
		applog.FieldRecordID, id,
		applog.FieldStudentID, a.StudentID,
		applog.FieldDay, a.Day,
		applog.FieldTime, a.Time)
	return id, nil
}

func (r *SQLiteRepository) ListAppointments(ctx context.Context) ([]core.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, day, time FROM appointments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []core.Appointment
	for rows.Next() {
		var a core.Appointment
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Day, &a.Time); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *SQLiteRepository) ListInstructors(ctx context.Context) ([]core.Instructor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM instructors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	defer rows.Close()

	var instructors []core.Instructor
	for rows.Next() {
		var i core.Instructor
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		instructors = append(instructors, i)
	}
	return instructors, rows.Err()
}

func (r *SQLiteRepository) AddAttendance(ctx context.Context, a core.AttendanceRecord) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "att")
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, date, status) VALUES (?, ?, ?, ?)`,
		id, a.StudentID, a.Date.ISO(), string(a.Status))
	if err != nil {
		return "", fmt.Errorf("insert attendance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "attendance saved",
		applog.FieldCollection, "attendance",
		applog.FieldRecordID, id,
		applog.FieldStudentID, a.StudentID)
	return id, nil
}

func (r *SQLiteRepository) ListAttendance(ctx context.Context) ([]core.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, status FROM attendance ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []core.AttendanceRecord
	for rows.Next() {
		var a core.AttendanceRecord
		var date, status string
		if err := rows.Scan(&a.ID, &a.StudentID, &date, &status); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		if a.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("attendance %s date: %w", a.ID, err)
		}
		a.Status = core.AttendanceStatus(status)
		records = append(records, a)
	}
	return records, rows.Err()
}
