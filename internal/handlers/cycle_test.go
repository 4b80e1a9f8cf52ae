package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cup_controller/internal/models"
	"cup_controller/internal/service"
	"cup_controller/internal/store"
)

func postJSON(body string, path string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestCycleHandlers_Start(t *testing.T) {
	cyc := &mockCycle{}
	r := newTestRouter(&service.Service{Cycle: cyc})

	body := `{"name":"Bake","steps":[{"state":"open","durationMinutes":1},{"id":"s2","state":"closed","durationMinutes":0}],"repeat":2}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON(body, "/api/v1/cycle/start"))
	if w.Code != http.StatusOK {
		t.Fatalf("start status=%d, body=%s", w.Code, w.Body.String())
	}
	if len(cyc.started) != 1 {
		t.Fatalf("Start calls=%d", len(cyc.started))
	}
	p := cyc.started[0]
	if p.ID == "" || p.Steps[0].ID == "" || p.Steps[1].ID != "s2" {
		t.Fatalf("ids not normalized: %+v", p)
	}
	if p.Repeat != 2 || p.Steps[0].State != models.CupOpen || p.Steps[0].DurationMinutes != 1 {
		t.Fatalf("program not decoded: %+v", p)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON(`{"steps":`, "/api/v1/cycle/start"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestCycleHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"already running", service.ErrAlreadyRunning, http.StatusBadRequest},
		{"empty program", service.ErrEmptyProgram, http.StatusBadRequest},
		{"invalid program", fmt.Errorf("%w: repeat must be >= 1", service.ErrInvalidProgram), http.StatusBadRequest},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Cycle: &mockCycle{startErr: tc.err}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON(`{"steps":[{"state":"open","durationMinutes":1}],"repeat":1}`, "/api/v1/cycle/start"))
			if w.Code != tc.wantCode {
				t.Fatalf("code=%d; want %d", w.Code, tc.wantCode)
			}
			var res Result
			_ = json.Unmarshal(w.Body.Bytes(), &res)
			if res.Success || res.Error != tc.err.Error() {
				t.Fatalf("unexpected body: %+v", res)
			}
		})
	}
}

func TestCycleHandlers_PauseResumeStop(t *testing.T) {
	cyc := &mockCycle{}
	r := newTestRouter(&service.Service{Cycle: cyc})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("", "/api/v1/cycle/pause"))
	if w.Code != http.StatusOK || cyc.pauseCalls != 1 {
		t.Fatalf("pause status=%d calls=%d", w.Code, cyc.pauseCalls)
	}

	// resume without a body uses the retained program
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("", "/api/v1/cycle/resume"))
	if w.Code != http.StatusOK {
		t.Fatalf("resume status=%d body=%s", w.Code, w.Body.String())
	}
	if len(cyc.resumedWith) != 1 || cyc.resumedWith[0] != nil {
		t.Fatalf("expected nil program, got %+v", cyc.resumedWith)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON(`{"id":"p1","steps":[{"state":"open","durationMinutes":1}],"repeat":1}`, "/api/v1/cycle/resume"))
	if w.Code != http.StatusOK {
		t.Fatalf("resume with body status=%d", w.Code)
	}
	if len(cyc.resumedWith) != 2 || cyc.resumedWith[1] == nil || cyc.resumedWith[1].ID != "p1" {
		t.Fatalf("program not passed to Resume: %+v", cyc.resumedWith)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("", "/api/v1/cycle/stop"))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, postJSON("", "/api/v1/cycle/stop"))
	if w.Code != http.StatusOK || w2.Code != http.StatusOK || cyc.stopCalls != 2 {
		t.Fatalf("stop codes=%d,%d calls=%d", w.Code, w2.Code, cyc.stopCalls)
	}
}

func TestCycleHandlers_PreconditionErrors(t *testing.T) {
	cyc := &mockCycle{pauseErr: service.ErrNotRunning, resumeErr: service.ErrProgramMismatch}
	r := newTestRouter(&service.Service{Cycle: cyc})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("", "/api/v1/cycle/pause"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("pause code=%d; want 400", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON(`{"id":"other","steps":[{"state":"open","durationMinutes":1}],"repeat":1}`, "/api/v1/cycle/resume"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("resume code=%d; want 400", w.Code)
	}
}

func TestCycleHandlers_Status(t *testing.T) {
	cyc := &mockCycle{}
	r := newTestRouter(&service.Service{Cycle: cyc})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cycle/status", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"cycleExecution":null}` {
		t.Fatalf("idle status code=%d body=%s", w.Code, w.Body.String())
	}

	cyc.status = &models.CycleExecution{ProgramID: "p1", CompletedSteps: 2, IsRunning: true}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cycle/status", nil))
	var resp CycleStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.CycleExecution == nil || resp.CycleExecution.ProgramID != "p1" || resp.CycleExecution.CompletedSteps != 2 {
		t.Fatalf("unexpected status: %+v", resp.CycleExecution)
	}
}

type okSender struct{}

func (okSender) Send(context.Context, models.CupState) service.CommandResult {
	return service.CommandResult{Success: true}
}

func TestCycleHandlers_ResumeWithStartBody(t *testing.T) {
	sched := service.NewScheduler(okSender{}, store.New(0), nil, time.Hour, nil)
	t.Cleanup(sched.Close)
	r := newTestRouter(&service.Service{Cycle: sched})

	body := `{"name":"Bake","steps":[{"state":"open","durationMinutes":1},{"state":"closed","durationMinutes":1}],"repeat":1}`
	for _, step := range []struct{ path, body string }{
		{"/api/v1/cycle/start", body},
		{"/api/v1/cycle/pause", ""},
		{"/api/v1/cycle/resume", body},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON(step.body, step.path))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", step.path, w.Code, w.Body.String())
		}
	}
	if st := sched.Status(); st == nil || st.IsPaused || !st.IsRunning {
		t.Fatalf("expected a running execution, got %+v", st)
	}
}
