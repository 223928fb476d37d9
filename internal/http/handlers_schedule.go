package http

import (
	"log/slog"
	"net/http"

	"toca/internal/core"
	applog "toca/internal/log"
)

type addAppointmentRequest struct {
	StudentID string `json:"studentId"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

type addAttendanceRequest struct {
	StudentID string                `json:"studentId"`
	Date      string                `json:"date"`
	Status    core.AttendanceStatus `json:"status"`
}

type availabilityResponse struct {
	Days      []string            `json:"days"`
	GridTimes []string            `json:"gridTimes"`
	Available map[string][]string `json:"available"`
}

type agendaEntry struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

type agendaSlot struct {
	Day          string        `json:"day"`
	Time         string        `json:"time"`
	Bookable     bool          `json:"bookable"`
	Appointments []agendaEntry `json:"appointments"`
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	appts, err := s.store.ListAppointments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (s *Server) handleAddAppointment(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	var req addAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if err := core.ValidateSlot(req.Day, req.Time); err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.store.GetStudent(r.Context(), req.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}

	a := core.Appointment{StudentID: req.StudentID, Day: req.Day, Time: req.Time}
	id, err := s.store.AddAppointment(r.Context(), a)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	a.ID = id

	slog.InfoContext(r.Context(), "appointment booked",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "appointments",
		applog.FieldRecordID, id,
		applog.FieldStudentID, a.StudentID,
		applog.FieldDay, a.Day,
		applog.FieldTime, a.Time)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListInstructors(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	instructors, err := s.store.ListInstructors(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instructors)
}

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	records, err := s.store.ListAttendance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleAddAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	var req addAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.store.GetStudent(r.Context(), req.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}

	rec := core.AttendanceRecord{StudentID: req.StudentID, Date: date, Status: req.Status}
	id, err := s.store.AddAttendance(r.Context(), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rec.ID = id

	slog.InfoContext(r.Context(), "attendance recorded",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCollection, "attendance",
		applog.FieldRecordID, id,
		applog.FieldStudentID, rec.StudentID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	resp := availabilityResponse{
		Days:      core.DaysOfWeek,
		GridTimes: core.GridTimes(),
		Available: make(map[string][]string, len(core.DaysOfWeek)),
	}
	for _, day := range core.DaysOfWeek {
		resp.Available[day] = core.AvailableTimes(day)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAgenda renders the weekly grid: every (day, time) cell with the
// bookings in it and student names resolved. Orphaned student ids keep
// the booking visible with an empty name.
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w) {
		return
	}
	appts, err := s.store.ListAppointments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.FullName
	}

	bySlot := make(map[[2]string][]agendaEntry)
	for _, a := range appts {
		key := [2]string{a.Day, a.Time}
		bySlot[key] = append(bySlot[key], agendaEntry{
			ID:          a.ID,
			StudentID:   a.StudentID,
			StudentName: names[a.StudentID],
		})
	}

	var slots []agendaSlot
	for _, day := range core.DaysOfWeek {
		for _, t := range core.GridTimes() {
			hour, err := core.ParseHour(t)
			if err != nil {
				continue
			}
			entries := bySlot[[2]string{day, t}]
			if entries == nil {
				entries = []agendaEntry{}
			}
			slots = append(slots, agendaSlot{
				Day:          day,
				Time:         t,
				Bookable:     core.IsClassTime(day, hour),
				Appointments: entries,
			})
		}
	}
	writeJSON(w, http.StatusOK, slots)
}
