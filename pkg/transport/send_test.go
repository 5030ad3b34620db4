package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/pipe"
)

type captured struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    []byte
}

// newServer starts a server answering every request with status and body,
// and records the last request it received.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.headers = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Options{Defaults: &Defaults{HostName: srv.URL}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSend_Healthz(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"status":"ok"}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	res, err := Send[map[string]any](context.Background(), r, api.CommandQuery, "/healthz", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError() {
		t.Fatalf("unexpected http error: %v", res.Err())
	}
	if want := map[string]any{"status": "ok"}; !reflect.DeepEqual(res.Value(), want) {
		t.Errorf("value = %v, want %v", res.Value(), want)
	}
	if got.method != http.MethodGet {
		t.Errorf("method = %s, want GET", got.method)
	}
	if got.path != "/healthz" {
		t.Errorf("path = %s, want /healthz", got.path)
	}
}

func TestSend_HTTPErrorIsAValue(t *testing.T) {
	srv, got := newServer(t, http.StatusNotFound, `{"detail":"not found"}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	res, err := Send[map[string]any](context.Background(), r, api.CommandCreate, "/items", &Request{
		JSON: map[string]string{"name": "x"},
	})
	if err != nil {
		t.Fatalf("http errors must not be returned as error, got %v", err)
	}
	if !res.IsError() {
		t.Fatal("expected an http error result")
	}
	if res.Err().Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.Err().Status)
	}
	if want := map[string]any{"detail": "not found"}; !reflect.DeepEqual(res.Err().Body, want) {
		t.Errorf("body = %v, want %v", res.Err().Body, want)
	}
	if got.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", got.method)
	}

	var raised error
	for _, err := range pipe.Raise(pipe.Single(res, err)) {
		raised = err
	}
	var httpErr *api.HTTPError
	if !errors.As(raised, &httpErr) {
		t.Fatalf("raised = %v, want *api.HTTPError", raised)
	}
	if httpErr.Status != 404 || !reflect.DeepEqual(httpErr.Body, map[string]any{"detail": "not found"}) {
		t.Errorf("raised error = %+v, want status 404 with detail", httpErr)
	}
}

func TestSend_DefaultMethods(t *testing.T) {
	tests := []struct {
		command api.Command
		want    string
	}{
		{api.CommandQuery, http.MethodGet},
		{api.CommandCreate, http.MethodPut},
		{api.CommandUpdate, http.MethodPost},
		{api.CommandDelete, http.MethodDelete},
		{api.CommandUpload, http.MethodPost},
		{api.CommandDownload, http.MethodGet},
	}
	srv, got := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	for _, tt := range tests {
		t.Run(string(tt.command), func(t *testing.T) {
			if _, err := Send[map[string]any](context.Background(), r, tt.command, "/x", nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.method != tt.want {
				t.Errorf("method = %s, want %s", got.method, tt.want)
			}
		})
	}

	t.Run("override", func(t *testing.T) {
		if _, err := Send[map[string]any](context.Background(), r, api.CommandQuery, "/x", &Request{Method: http.MethodPost}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.method != http.MethodPost {
			t.Errorf("method = %s, want POST", got.method)
		}
	})
}

func TestSend_JSONBody(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	payload := map[string]any{"name": "x", "tags": []any{"a", "b"}}
	_, err := Send[struct{}](context.Background(), r, api.CommandUpdate, "/items/1", &Request{
		JSON:    payload,
		Headers: map[string]string{"Content-Type": "text/plain"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := got.headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	want, _ := json.Marshal(payload)
	if string(got.body) != string(want) {
		t.Errorf("body = %s, want %s", got.body, want)
	}
}

func TestSend_QueryParameters(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	_, err := Send[struct{}](context.Background(), r, api.CommandQuery, "/items?a=1", &Request{
		Query: map[string][]string{"b": {"2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.query != "a=1&b=2" {
		t.Errorf("query = %q, want a=1&b=2", got.query)
	}
}

func TestSend_HeaderPrecedence(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	c, err := New(Options{Defaults: &Defaults{
		HostName: srv.URL,
		Headers:  map[string]string{"X-Default": "default", "X-Level": "default"},
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := NewRootRouter(c, "", map[string]string{"X-Router": "router", "X-Level": "router"})

	_, err = Send[struct{}](context.Background(), r, api.CommandQuery, "/", &Request{
		Headers: map[string]string{"X-Native": "native", "X-Level": "native", "X-Router": "native"},
	}, WithHeaders(map[string]string{"X-Caller": "caller", "X-Router": "caller"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"X-Default": "default",
		"X-Native":  "native",
		"X-Level":   "router",
		"X-Router":  "caller",
		"X-Caller":  "caller",
	}
	for k, v := range want {
		if got.headers.Get(k) != v {
			t.Errorf("header %s = %q, want %q", k, got.headers.Get(k), v)
		}
	}
}

func TestSend_RequestIDFromContext(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	if _, err := Send[struct{}](ctx, r, api.CommandQuery, "/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id := got.headers.Get(RequestIDHeader); id != "req-42" {
		t.Errorf("%s = %q, want req-42", RequestIDHeader, id)
	}
}

func TestSend_EmptySuccessBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusNoContent, "")
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	res, err := Send[map[string]any](context.Background(), r, api.CommandDelete, "/items/1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError() || res.Value() != nil {
		t.Errorf("result = %+v, want zero success", res)
	}
}

func TestSend_MalformedBodyIsTransportFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"success", http.StatusOK},
		{"error", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, "<html>oops</html>")
			r := NewRootRouter(newTestClient(t, srv), "", nil)

			res, err := Send[map[string]any](context.Background(), r, api.CommandQuery, "/", nil)
			if !errors.Is(err, ErrMalformedBody) {
				t.Fatalf("error = %v, want ErrMalformedBody", err)
			}
			if res.IsError() {
				t.Error("malformed bodies must not become http errors")
			}
		})
	}
}

func TestSend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(t, srv)
	srv.Close()

	rec := &monitor.Recorder{}
	res, err := Send[map[string]any](context.Background(), NewRootRouter(c, "", nil), api.CommandQuery, "/", nil,
		WithMonitoring("down", rec))
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if res.IsError() {
		t.Error("transport failures must not become http errors")
	}
	events := rec.Events()
	if len(events) != 1 || events[0].Step != api.StepStarted {
		t.Errorf("events = %v, want only started", events)
	}
}

func TestSend_CanceledContext(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Send[struct{}](ctx, r, api.CommandQuery, "/", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSend_MonitoredEvents(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _ := newServer(t, status, `{"a":1}`)
			r := NewRootRouter(newTestClient(t, srv), "", nil)

			rec := &monitor.Recorder{}
			if _, err := Send[map[string]any](context.Background(), r, api.CommandQuery, "/assets", nil,
				WithMonitoring("", rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := []api.RequestEvent{
				{RequestID: r.URL("/assets"), CommandType: api.CommandQuery, Step: api.StepStarted, TransferredCount: 0, TotalCount: 1},
				{RequestID: r.URL("/assets"), CommandType: api.CommandQuery, Step: api.StepFinished, TransferredCount: 1, TotalCount: 1},
			}
			if got := rec.Events(); !reflect.DeepEqual(got, want) {
				t.Errorf("events = %+v, want %+v", got, want)
			}
		})
	}
}

func TestSend_NoMonitoringNoEvents(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	r := NewRootRouter(newTestClient(t, srv), "", nil)

	if _, err := Send[struct{}](context.Background(), r, api.CommandQuery, "/", nil, WithMonitor(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Send[struct{}](context.Background(), r, api.CommandQuery, "/", nil, WithMonitoring("id")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSendURL_BaseURL(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"ok":true}`)
	c, err := New(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := SendURL[map[string]bool](context.Background(), c, api.CommandQuery, "/api/healthz", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Value()["ok"] {
		t.Errorf("value = %v, want ok", res.Value())
	}
	if got.path != "/api/healthz" {
		t.Errorf("path = %s, want /api/healthz", got.path)
	}
}
