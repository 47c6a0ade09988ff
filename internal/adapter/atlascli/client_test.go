package atlascli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

type call struct {
	name string
	args []string
}

// fakeRunner records invocations and plays back scripted responses in order.
type fakeRunner struct {
	calls   []call
	stdouts []string
	stderrs []string
	errs    []error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	i := len(f.calls)
	f.calls = append(f.calls, call{name: name, args: args})

	var stdout, stderr string
	var err error
	if i < len(f.stdouts) {
		stdout = f.stdouts[i]
	}
	if i < len(f.stderrs) {
		stderr = f.stderrs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return []byte(stdout), []byte(stderr), err
}

func newTestClient(f *fakeRunner) *Client {
	return &Client{
		binary: "atlas",
		run:    f.run,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestEnsureAvailable(t *testing.T) {
	t.Run("Checks version then auth", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{"atlascli version: 1.22.0", ""}}
		if err := newTestClient(f).EnsureAvailable(context.Background()); err != nil {
			t.Fatalf("EnsureAvailable() error: %v", err)
		}
		if len(f.calls) != 2 {
			t.Fatalf("expected 2 invocations, got %d", len(f.calls))
		}
		if !reflect.DeepEqual(f.calls[0].args, []string{"--version"}) {
			t.Errorf("first call: %v", f.calls[0].args)
		}
		if !reflect.DeepEqual(f.calls[1].args, []string{"config", "list"}) {
			t.Errorf("second call: %v", f.calls[1].args)
		}
	})

	t.Run("Missing binary", func(t *testing.T) {
		f := &fakeRunner{errs: []error{errors.New("executable file not found")}}
		err := newTestClient(f).EnsureAvailable(context.Background())
		if err == nil || !strings.Contains(err.Error(), "not installed") {
			t.Errorf("got %v", err)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		f := &fakeRunner{
			stdouts: []string{"atlascli version: 1.22.0"},
			errs:    []error{nil, errors.New("exit status 1")},
		}
		err := newTestClient(f).EnsureAvailable(context.Background())
		if err == nil || !strings.Contains(err.Error(), "not authenticated") {
			t.Errorf("got %v", err)
		}
	})
}

func TestCreate(t *testing.T) {
	t.Run("Builds command and parses ID", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{`{"id": "65f0c9", "enabled": true}`}}
		id, err := newTestClient(f).Create(context.Background(), "alerts/01_page_faults_low.json", "proj-1")
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if id != "65f0c9" {
			t.Errorf("id: got %q", id)
		}
		want := []string{
			"alerts", "settings", "create",
			"--file", "alerts/01_page_faults_low.json",
			"--projectId", "proj-1",
			"--output", "json",
		}
		if !reflect.DeepEqual(f.calls[0].args, want) {
			t.Errorf("args: got %v", f.calls[0].args)
		}
	})

	t.Run("Non-JSON success yields empty ID", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{"Alert configuration created.\n"}}
		id, err := newTestClient(f).Create(context.Background(), "a.json", "proj-1")
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if id != "" {
			t.Errorf("id: got %q, want empty", id)
		}
	})

	t.Run("Failure surfaces stderr message", func(t *testing.T) {
		f := &fakeRunner{
			stderrs: []string{"Error: INVALID_ATTRIBUTE: threshold"},
			errs:    []error{errors.New("exit status 1")},
		}
		_, err := newTestClient(f).Create(context.Background(), "a.json", "proj-1")
		if err == nil || !strings.Contains(err.Error(), "INVALID_ATTRIBUTE") {
			t.Errorf("got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Run("Paged response", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{`{"results": [{"id": "a1", "eventTypeName": "HOST_DOWN", "enabled": true}]}`}}
		alerts, err := newTestClient(f).List(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(alerts) != 1 || alerts[0].ID != "a1" || alerts[0].EventTypeName != domain.EventHostDown {
			t.Errorf("alerts: %+v", alerts)
		}
	})

	t.Run("Paged response without results key is empty", func(t *testing.T) {
		for _, stdout := range []string{`{}`, `{"totalCount": 0}`} {
			f := &fakeRunner{stdouts: []string{stdout}}
			alerts, err := newTestClient(f).List(context.Background(), "proj-1")
			if err != nil {
				t.Fatalf("List(%s) error: %v", stdout, err)
			}
			if len(alerts) != 0 {
				t.Errorf("List(%s): got %+v, want empty", stdout, alerts)
			}
		}
	})

	t.Run("Bare array response", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{`[{"id": "a1"}, {"id": "a2"}]`}}
		alerts, err := newTestClient(f).List(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(alerts) != 2 {
			t.Errorf("alerts: %+v", alerts)
		}
	})

	t.Run("Unparseable response", func(t *testing.T) {
		f := &fakeRunner{stdouts: []string{"no alerts configured"}}
		if _, err := newTestClient(f).List(context.Background(), "proj-1"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("Builds command", func(t *testing.T) {
		f := &fakeRunner{}
		if err := newTestClient(f).Delete(context.Background(), "a1", "proj-1"); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		want := []string{"alerts", "settings", "delete", "a1", "--projectId", "proj-1", "--force"}
		if !reflect.DeepEqual(f.calls[0].args, want) {
			t.Errorf("args: got %v", f.calls[0].args)
		}
	})

	t.Run("Gone already maps to ErrAlertNotFound", func(t *testing.T) {
		for _, stderr := range []string{
			"Error: ALERT_CONFIG_NOT_FOUND",
			"Error: 404 (request failed)",
		} {
			f := &fakeRunner{
				stderrs: []string{stderr},
				errs:    []error{errors.New("exit status 1")},
			}
			err := newTestClient(f).Delete(context.Background(), "a1", "proj-1")
			if !errors.Is(err, domain.ErrAlertNotFound) {
				t.Errorf("stderr %q: got %v, want ErrAlertNotFound", stderr, err)
			}
		}
	})

	t.Run("Other failures surface stderr", func(t *testing.T) {
		f := &fakeRunner{
			stderrs: []string{"Error: FORBIDDEN"},
			errs:    []error{errors.New("exit status 1")},
		}
		err := newTestClient(f).Delete(context.Background(), "a1", "proj-1")
		if err == nil || !strings.Contains(err.Error(), "FORBIDDEN") {
			t.Errorf("got %v", err)
		}
	})
}
