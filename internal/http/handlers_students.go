package http

import (
	"log/slog"
	"net/http"
	"time"

	"toca/internal/core"
	applog "toca/internal/log"
)

type addStudentRequest struct {
	FullName              string                `json:"fullName"`
	Email                 string                `json:"email"`
	Phone                 string                `json:"phone"`
	JoinDate              string                `json:"joinDate"`
	Status                core.StudentStatus    `json:"status"`
	Plan                  string                `json:"plan"`
	NextDueDate           string                `json:"nextDueDate"`
	PreferredInstructorID string                `json:"preferredInstructorId"`
	ScheduledClasses      []core.ScheduledClass `json:"scheduledClasses"`
	Observations          string                `json:"observations"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	var req addStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	joinDate, err := core.ParseDate(req.JoinDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	nextDue, err := core.ParseDate(req.NextDueDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	st := core.Student{
		FullName:              sanitizeInput(req.FullName),
		Email:                 sanitizeInput(req.Email),
		Phone:                 sanitizeInput(req.Phone),
		JoinDate:              joinDate,
		Status:                req.Status,
		Plan:                  sanitizeInput(req.Plan),
		NextDueDate:           nextDue,
		PreferredInstructorID: req.PreferredInstructorID,
		ScheduledClasses:      req.ScheduledClasses,
		Observations:          sanitizeInput(req.Observations),
	}
	id, err := s.store.AddStudent(r.Context(), st)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	st.ID = id

	slog.InfoContext(r.Context(), "student added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "students",
		applog.FieldRecordID, id)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	st, err := s.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStudentPayments(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	st, err := s.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	payments, err := s.store.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, core.PaymentHistory(payments, st.ID))
}

func (s *Server) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	st, err := s.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	records, err := s.store.ListAttendance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, core.AttendanceHistory(records, st.ID))
}

func (s *Server) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	st, err := s.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	records, err := s.store.ListAttendance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summary := core.SummarizeAttendance(st.Plan, records, st.ID, core.Today(time.Now()))
	writeJSON(w, http.StatusOK, summary)
}
