package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cup_controller/internal/models"
)

type relayStub struct {
	mu     sync.Mutex
	paths  []string
	status int
	body   string
	delay  time.Duration
}

func (r *relayStub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	status, body, delay := r.status, r.body, r.delay
	r.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (r *relayStub) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestHTTPTransport_SwitchPaths(t *testing.T) {
	stub := &relayStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", 2, time.Second)
	if err := tr.Switch(context.Background(), models.CupOpen); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tr.Switch(context.Background(), models.CupClosed); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := stub.calls()
	if len(got) != 2 || got[0] != "/on/2" || got[1] != "/off/2" {
		t.Fatalf("unexpected paths: %v", got)
	}
	if tr.Simulated() {
		t.Fatalf("http transport must not report simulated")
	}
}

func TestHTTPTransport_NonOKIsFailure(t *testing.T) {
	stub := &relayStub{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	err := NewHTTPTransport(srv.URL, 1, time.Second).Switch(context.Background(), models.CupOpen)
	if err == nil || err.Error() != "failed with status 503" {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPTransport_RejectsUnknownState(t *testing.T) {
	tr := NewHTTPTransport("http://127.0.0.1:1", 1, time.Second)
	if err := tr.Switch(context.Background(), models.CupUnknown); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestHTTPTransport_Timeout(t *testing.T) {
	stub := &relayStub{delay: 200 * time.Millisecond}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	err := NewHTTPTransport(srv.URL, 1, 20*time.Millisecond).Switch(context.Background(), models.CupOpen)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestHTTPTransport_Probe(t *testing.T) {
	stub := &relayStub{body: `{"state":"on"}`}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	st, err := NewHTTPTransport(srv.URL, 1, time.Second).Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if st != models.CupOpen {
		t.Fatalf("state = %q", st)
	}
	if calls := stub.calls(); len(calls) != 1 || calls[0] != "/status/1" {
		t.Fatalf("unexpected paths: %v", calls)
	}
}

func TestParseRelayState(t *testing.T) {
	tests := []struct {
		body    string
		want    models.CupState
		wantErr bool
	}{
		{"on", models.CupOpen, false},
		{" 1\n", models.CupOpen, false},
		{"OFF", models.CupClosed, false},
		{"0", models.CupClosed, false},
		{`{"relay":1}`, models.CupOpen, false},
		{`{"state":"off"}`, models.CupClosed, false},
		{`{"state":`, models.CupUnknown, true},
		{"maybe", models.CupUnknown, true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.body), func(t *testing.T) {
			got, err := parseRelayState([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrUnreadableState) {
					t.Fatalf("expected ErrUnreadableState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
