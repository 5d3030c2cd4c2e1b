// ABOUTME: Shared test doubles for the genie package
// ABOUTME: Scripted Doer and a fake space API over httptest

package genie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/auth"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/transport"
)

// scriptedDoer returns canned JSON bodies keyed by "METHOD path". Unknown
// requests fail the test.
type scriptedDoer struct {
	t         *testing.T
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newScriptedDoer(t *testing.T) *scriptedDoer {
	return &scriptedDoer{
		t:         t,
		responses: make(map[string]string),
		errs:      make(map[string]error),
	}
}

func (d *scriptedDoer) on(method, path, body string) {
	d.responses[method+" "+path] = body
}

func (d *scriptedDoer) failWith(method, path string, err error) {
	d.errs[method+" "+path] = err
}

func (d *scriptedDoer) Do(_ context.Context, method, path string, _, out any) error {
	key := method + " " + path
	d.calls = append(d.calls, key)
	if err, ok := d.errs[key]; ok {
		return err
	}
	body, ok := d.responses[key]
	if !ok {
		d.t.Fatalf("unexpected request: %s", key)
	}
	if out == nil || body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

// fakeSpace is an httptest-backed Genie space for end-to-end session tests.
type fakeSpace struct {
	srv *httptest.Server
	mux *http.ServeMux
}

func newFakeSpace(t *testing.T) *fakeSpace {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &fakeSpace{srv: srv, mux: mux}
}

// session builds a Session wired to the fake space with fast polling.
func (f *fakeSpace) session(spaceID string) *Session {
	exec := transport.New(f.srv.URL, auth.StaticToken("tok"),
		transport.WithRetry(transport.DefaultMaxAttempts, time.Microsecond))
	return NewSession(NewClient(exec, spaceID), time.Millisecond, 0)
}

// handle registers a handler for the given space-relative route.
func (f *fakeSpace) handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if s, ok := v.(string); ok {
		fmt.Fprint(w, s)
		return
	}
	json.NewEncoder(w).Encode(v)
}
