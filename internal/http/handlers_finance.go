package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"toca/internal/core"
	applog "toca/internal/log"
)

type addPaymentRequest struct {
	StudentID   string `json:"studentId"`
	Amount      string `json:"amount"`
	DueDate     string `json:"dueDate"`
	IsPaid      bool   `json:"isPaid"`
	PaymentDate string `json:"paymentDate,omitempty"`
}

type addExpenseRequest struct {
	Description string               `json:"description"`
	Amount      string               `json:"amount"`
	DueDate     string               `json:"dueDate"`
	Category    core.ExpenseCategory `json:"category"`
	IsPaid      bool                 `json:"isPaid"`
	PaymentDate string               `json:"paymentDate,omitempty"`
}

type addRevenueRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

type financeOverview struct {
	Series []core.MonthFinancials `json:"series"`
	Totals core.FinanceTotals     `json:"totals"`
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req addPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dueDate, err := core.ParseDate(req.DueDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var paymentDate *core.Date
	if req.PaymentDate != "" {
		d, err := core.ParseDate(req.PaymentDate)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		paymentDate = &d
	}
	if _, err := s.store.GetStudent(r.Context(), req.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}

	p := core.NewPayment(req.StudentID, amount, dueDate, req.IsPaid, paymentDate, core.Today(time.Now()))
	id, err := s.store.AddPayment(r.Context(), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p.ID = id
	s.invalidateFinancials()

	slog.InfoContext(r.Context(), "payment added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "payments",
		applog.FieldRecordID, id,
		applog.FieldStudentID, p.StudentID,
		applog.FieldAmountCents, p.Amount.Cents)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dueDate, err := core.ParseDate(req.DueDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	e := core.Expense{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		DueDate:     dueDate,
		Category:    req.Category,
		Status:      core.ExpensePending,
	}
	// Same settlement rule as payments: a paid expense without an explicit
	// payment date settles today.
	if req.IsPaid {
		e.Status = core.ExpensePaid
		if req.PaymentDate != "" {
			d, err := core.ParseDate(req.PaymentDate)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			e.PaymentDate = &d
		} else {
			today := core.Today(time.Now())
			e.PaymentDate = &today
		}
	}

	id, err := s.store.AddExpense(r.Context(), e)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	e.ID = id
	s.invalidateFinancials()

	slog.InfoContext(r.Context(), "expense added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "expenses",
		applog.FieldRecordID, id,
		applog.FieldAmountCents, e.Amount.Cents)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListRevenues(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	revenues, err := s.store.ListOtherRevenues(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revenues)
}

func (s *Server) handleAddRevenue(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}
	var req addRevenueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rev := core.OtherRevenue{
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Date:        date,
	}
	id, err := s.store.AddOtherRevenue(r.Context(), rev)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rev.ID = id
	s.invalidateFinancials()

	slog.InfoContext(r.Context(), "revenue added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "revenues",
		applog.FieldRecordID, id,
		applog.FieldAmountCents, rev.Amount.Cents)
	writeJSON(w, http.StatusCreated, rev)
}

func (s *Server) handleFinanceOverview(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}

	ref := core.Today(time.Now())
	cacheKey := fmt.Sprintf("series:%d-%02d", ref.Year(), ref.Month())

	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	revenues, err := s.store.ListOtherRevenues(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	series, ok := s.seriesCache.Get(cacheKey)
	if !ok {
		series = core.MonthlySeries(payments, expenses, revenues, ref)
		s.seriesCache.Set(cacheKey, series)
	}

	writeJSON(w, http.StatusOK, financeOverview{
		Series: series,
		Totals: core.RealizedTotals(payments, expenses, revenues),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}

	if stats, ok := s.dashboardCache.Get("dashboard"); ok {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	revenues, err := s.store.ListOtherRevenues(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stats := core.ComputeDashboard(students, payments, expenses, revenues, core.Today(time.Now()))
	s.dashboardCache.Set("dashboard", stats)
	writeJSON(w, http.StatusOK, stats)
}
