package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin     UserRole = "Admin"
	RoleReception UserRole = "Recepcao"
)

const (
	StudentActive   StudentStatus = "Ativo"
	StudentInactive StudentStatus = "Inativo"
	StudentTrial    StudentStatus = "Experimental"
)

const (
	PaymentPaid    PaymentStatus = "Pago"
	PaymentPending PaymentStatus = "Pendente"
	PaymentOverdue PaymentStatus = "Atrasado"
)

const (
	ExpensePaid    ExpenseStatus = "Pago"
	ExpensePending ExpenseStatus = "Pendente"
)

const (
	CategoryRent      ExpenseCategory = "Aluguel"
	CategorySalaries  ExpenseCategory = "Salários"
	CategoryBills     ExpenseCategory = "Contas"
	CategoryMarketing ExpenseCategory = "Marketing"
	CategoryEquipment ExpenseCategory = "Equipamentos"
	CategoryOther     ExpenseCategory = "Outros"
)

const (
	Present AttendanceStatus = "Presente"
	Absent  AttendanceStatus = "Falta"
)

type (
	UserRole         string
	StudentStatus    string
	PaymentStatus    string
	ExpenseStatus    string
	ExpenseCategory  string
	AttendanceStatus string

	// User is one of the two fixed dashboard profiles.
	User struct {
		ID   string   `json:"id"`
		Name string   `json:"name"`
		Role UserRole `json:"role"`
	}

	// Date is a calendar day. All bucketing is done on the parsed
	// (year, month) pair, never by re-comparing strings.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ScheduledClass is a recurring weekly commitment on a student's plan,
	// distinct from a booked Appointment.
	ScheduledClass struct {
		Day  string `json:"day"`
		Time string `json:"time"`
	}

	Student struct {
		ID                    string           `json:"id"`
		FullName              string           `json:"fullName"`
		Email                 string           `json:"email"`
		Phone                 string           `json:"phone"`
		JoinDate              Date             `json:"joinDate"`
		Status                StudentStatus    `json:"status"`
		Plan                  string           `json:"plan"`
		NextDueDate           Date             `json:"nextDueDate"`
		PreferredInstructorID string           `json:"preferredInstructorId,omitempty"`
		ScheduledClasses      []ScheduledClass `json:"scheduledClasses,omitempty"`
		Observations          string           `json:"observations,omitempty"`
	}

	// Payment is one row per billing cycle.
	Payment struct {
		ID          string        `json:"id"`
		StudentID   string        `json:"studentId"`
		Amount      Money         `json:"amountCents"`
		DueDate     Date          `json:"dueDate"`
		PaymentDate *Date         `json:"paymentDate,omitempty"`
		Status      PaymentStatus `json:"status"`
	}

	Expense struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amountCents"`
		DueDate     Date            `json:"dueDate"`
		Category    ExpenseCategory `json:"category"`
		Status      ExpenseStatus   `json:"status"`
		PaymentDate *Date           `json:"paymentDate,omitempty"`
	}

	// OtherRevenue is non-tuition income (product sales, workshops).
	OtherRevenue struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Amount      Money  `json:"amountCents"`
		Date        Date   `json:"date"`
	}

	// Appointment is a booked weekly slot on the agenda grid.
	Appointment struct {
		ID        string `json:"id"`
		StudentID string `json:"studentId"`
		Day       string `json:"day"`
		Time      string `json:"time"`
	}

	Instructor struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// AttendanceRecord is one row per class occurrence.
	AttendanceRecord struct {
		ID        string           `json:"id"`
		StudentID string           `json:"studentId"`
		Date      Date             `json:"date"`
		Status    AttendanceStatus `json:"status"`
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrEmptyFullName        = errors.New("empty full name")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyStudentID       = errors.New("empty student id")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateAppointment = errors.New("student already booked for this slot")
	ErrSlotUnavailable      = errors.New("slot outside business hours")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("forbidden")
)

const isoDate = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to its calendar day.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts an ISO-8601 date or date-time string. Incoming records
// are parsed once here; everything downstream works on the structured value.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDate, s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Today(t), nil
	}
	return Date{}, ErrInvalidDate
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(isoDate)
}

// Month returns the month as an int for (year, month) bucketing.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// SameMonth reports whether both dates fall in the same calendar month of
// the same year.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Cents)
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &m.Cents)
}

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentTrial:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return true
	}
	return false
}

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePaid, ExpensePending:
		return true
	}
	return false
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryRent, CategorySalaries, CategoryBills, CategoryMarketing, CategoryEquipment, CategoryOther:
		return true
	}
	return false
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Absent:
		return true
	}
	return false
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleReception:
		return true
	}
	return false
}

func (s Student) Validate() error {
	if len(strings.TrimSpace(s.FullName)) == 0 {
		return ErrEmptyFullName
	}
	if err := s.JoinDate.Validate(); err != nil {
		return errors.New("invalid join date")
	}
	if err := s.NextDueDate.Validate(); err != nil {
		return errors.New("invalid next due date")
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p Payment) Validate() error {
	if p.StudentID == "" {
		return ErrEmptyStudentID
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.DueDate.Validate(); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.DueDate.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (r OtherRevenue) Validate() error {
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}

func (a Appointment) Validate() error {
	if a.StudentID == "" {
		return ErrEmptyStudentID
	}
	if a.Day == "" || a.Time == "" {
		return ErrInvalidDate
	}
	return nil
}

func (a AttendanceRecord) Validate() error {
	if a.StudentID == "" {
		return ErrEmptyStudentID
	}
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// NewPayment applies the payment-form rules: an unpaid payment is stored as
// Pendente with no payment date; a paid one with no explicit payment date
// defaults to today.
func NewPayment(studentID string, amount Money, dueDate Date, paid bool, paymentDate *Date, today Date) Payment {
	p := Payment{
		StudentID: studentID,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    PaymentPending,
	}
	if paid {
		p.Status = PaymentPaid
		if paymentDate != nil && !paymentDate.IsZero() {
			p.PaymentDate = paymentDate
		} else {
			p.PaymentDate = &today
		}
	}
	return p
}
