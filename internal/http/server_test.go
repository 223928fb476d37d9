package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"toca/internal/auth"
	"toca/internal/core"
	"toca/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sessions := auth.NewManager(filepath.Join(t.TempDir(), "session.json"))
	return NewServer(":0", memory.NewSeeded(time.Now()), sessions)
}

func login(t *testing.T, srv *Server, role core.UserRole) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"role":"`+string(role)+`"}`))
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login as %s: status %d, body %s", role, rr.Code, rr.Body.String())
	}
}

func do(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestRequiresLogin(t *testing.T) {
	srv := newTestServer(t)
	rr := do(srv, http.MethodGet, "/api/students", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: status %d, want 401", rr.Code)
	}
}

func TestFinancialsAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleReception)

	for _, path := range []string{"/api/payments", "/api/expenses", "/api/revenues", "/api/finance/overview", "/api/dashboard"} {
		rr := do(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusForbidden {
			t.Fatalf("reception on %s: status %d, want 403", path, rr.Code)
		}
	}

	// Reception still runs the desk: students, agenda, attendance.
	for _, path := range []string{"/api/students", "/api/appointments", "/api/attendance", "/api/schedule/agenda"} {
		rr := do(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("reception on %s: status %d, want 200", path, rr.Code)
		}
	}
}

func TestLoginMeLogout(t *testing.T) {
	srv := newTestServer(t)

	rr := do(srv, http.MethodPost, "/api/auth/login", `{"role":"Admin"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d", rr.Code)
	}
	var u core.User
	if err := json.Unmarshal(rr.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if u.Role != core.RoleAdmin {
		t.Fatalf("logged in as %q, want Admin", u.Role)
	}

	rr = do(srv, http.MethodGet, "/api/auth/me", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("me: status %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/auth/logout", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/api/auth/me", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d, want 401", rr.Code)
	}
}

func TestLoginUnknownRole(t *testing.T) {
	srv := newTestServer(t)
	rr := do(srv, http.MethodPost, "/api/auth/login", `{"role":"Gerente"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rr.Code)
	}
}

func TestAddPaymentDefaults(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleAdmin)

	// Unpaid: Pendente, no payment date.
	rr := do(srv, http.MethodPost, "/api/payments", `{"studentId":"s1","amount":"300,00","dueDate":"2024-08-10","isPaid":false}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add pending payment: status %d, body %s", rr.Code, rr.Body.String())
	}
	var p core.Payment
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if p.Status != core.PaymentPending || p.PaymentDate != nil {
		t.Fatalf("pending payment: %+v", p)
	}
	if p.Amount.Cents != 30000 {
		t.Fatalf("amount = %d cents, want 30000", p.Amount.Cents)
	}

	// Paid with no explicit payment date: settles today.
	rr = do(srv, http.MethodPost, "/api/payments", `{"studentId":"s1","amount":"300.00","dueDate":"2024-08-10","isPaid":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add paid payment: status %d, body %s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	today := core.Today(time.Now())
	if p.Status != core.PaymentPaid || p.PaymentDate == nil || !p.PaymentDate.SameMonth(today) {
		t.Fatalf("paid payment: %+v", p)
	}
}

func TestAddPaymentValidation(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleAdmin)

	rr := do(srv, http.MethodPost, "/api/payments", `{"studentId":"s1","amount":"abc","dueDate":"2024-08-10"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad amount: status %d, want 422", rr.Code)
	}
	rr = do(srv, http.MethodPost, "/api/payments", `{"studentId":"s1","amount":"300,00","dueDate":"10/08/2024"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date: status %d, want 422", rr.Code)
	}
	rr = do(srv, http.MethodPost, "/api/payments", `{"studentId":"s99","amount":"300,00","dueDate":"2024-08-10"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown student: status %d, want 404", rr.Code)
	}
}

func TestBookAppointment(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleReception)

	rr := do(srv, http.MethodPost, "/api/appointments", `{"studentId":"s5","day":"Sexta","time":"09:00"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("book: status %d, body %s", rr.Code, rr.Body.String())
	}

	// Same student, same slot: conflict, collection unchanged.
	before := len(listAppointments(t, srv))
	rr = do(srv, http.MethodPost, "/api/appointments", `{"studentId":"s5","day":"Sexta","time":"09:00"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate booking: status %d, want 409", rr.Code)
	}
	if after := len(listAppointments(t, srv)); after != before {
		t.Fatalf("collection changed on conflict: %d -> %d", before, after)
	}

	// Outside business hours.
	rr = do(srv, http.MethodPost, "/api/appointments", `{"studentId":"s5","day":"Segunda","time":"13:00"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("closed slot: status %d, want 422", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/appointments", `{"studentId":"s99","day":"Sexta","time":"10:00"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown student: status %d, want 404", rr.Code)
	}
}

func listAppointments(t *testing.T, srv *Server) []core.Appointment {
	t.Helper()
	rr := do(srv, http.MethodGet, "/api/appointments", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list appointments: status %d", rr.Code)
	}
	var appts []core.Appointment
	if err := json.Unmarshal(rr.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode appointments: %v", err)
	}
	return appts
}

func TestStudentProfileReads(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleReception)

	rr := do(srv, http.MethodGet, "/api/students/s1/attendance-summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary: status %d", rr.Code)
	}
	var sum core.AttendanceSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	// s1 is on "2x por semana": quota 8, seeded with 2 presences and 1 absence.
	if sum.MonthlyQuota != 8 || sum.Presences != 2 || sum.Absences != 1 || sum.Remaining != 6 {
		t.Fatalf("summary = %+v", sum)
	}

	rr = do(srv, http.MethodGet, "/api/students/s1/attendance", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("attendance history: status %d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/api/students/s99/payments", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown student history: status %d, want 404", rr.Code)
	}
}

func TestFinanceOverviewValues(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleAdmin)

	rr := do(srv, http.MethodGet, "/api/finance/overview", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("overview: status %d", rr.Code)
	}
	var ov financeOverview
	if err := json.Unmarshal(rr.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if len(ov.Series) != 6 {
		t.Fatalf("series length = %d, want 6", len(ov.Series))
	}
	for _, m := range ov.Series {
		if m.Profit.Cents != m.Revenue.Cents-m.Expense.Cents {
			t.Fatalf("profit identity broken in %s/%d", m.Label, m.Year)
		}
	}

	// A financial write must be visible on the next read.
	rr = do(srv, http.MethodPost, "/api/revenues", `{"description":"Aula avulsa","amount":"80,00","date":"`+core.Today(time.Now()).ISO()+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add revenue: status %d, body %s", rr.Code, rr.Body.String())
	}
	rr = do(srv, http.MethodGet, "/api/finance/overview", "")
	var ov2 financeOverview
	if err := json.Unmarshal(rr.Body.Bytes(), &ov2); err != nil {
		t.Fatalf("decode overview after write: %v", err)
	}
	last, last2 := ov.Series[5], ov2.Series[5]
	if last2.Revenue.Cents != last.Revenue.Cents+8000 {
		t.Fatalf("current month revenue %d, want %d", last2.Revenue.Cents, last.Revenue.Cents+8000)
	}
}

func TestAvailabilityGrid(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleReception)

	rr := do(srv, http.MethodGet, "/api/schedule/availability", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("availability: status %d", rr.Code)
	}
	var resp availabilityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	want := []string{"07:00", "08:00", "09:00", "10:00", "11:00", "16:00", "17:00", "18:00", "19:00"}
	got := resp.Available["Segunda"]
	if len(got) != len(want) {
		t.Fatalf("Segunda slots = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Segunda slots = %v, want %v", got, want)
		}
	}
}

func TestAgendaResolvesNames(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, core.RoleReception)

	rr := do(srv, http.MethodGet, "/api/schedule/agenda", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("agenda: status %d", rr.Code)
	}
	var slots []agendaSlot
	if err := json.Unmarshal(rr.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode agenda: %v", err)
	}
	found := false
	for _, slot := range slots {
		if slot.Day == "Segunda" && slot.Time == "08:00" {
			found = true
			if len(slot.Appointments) != 1 || slot.Appointments[0].StudentName != "Ana Silva" {
				t.Fatalf("Segunda 08:00 = %+v", slot.Appointments)
			}
		}
	}
	if !found {
		t.Fatal("Segunda 08:00 missing from grid")
	}
}
