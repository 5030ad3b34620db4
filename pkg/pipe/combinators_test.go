package pipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/youwol/httpclients/pkg/api"
)

type item struct {
	Name string `json:"name"`
}

func notFound(t *testing.T) *api.HTTPError {
	t.Helper()
	e, err := api.NewHTTPError(404, []byte(`{"detail":"not found"}`))
	if err != nil {
		t.Fatalf("NewHTTPError: %v", err)
	}
	return e
}

func TestRaise(t *testing.T) {
	t.Run("http error becomes failure", func(t *testing.T) {
		httpErr := notFound(t)
		var values []item
		var got error
		for v, err := range Raise(Of(api.Fail[item](httpErr), api.Ok(item{"never"}))) {
			if err != nil {
				got = err
				continue
			}
			values = append(values, v)
		}
		if len(values) != 0 {
			t.Errorf("values = %v, want none", values)
		}
		var he *api.HTTPError
		if !errors.As(got, &he) {
			t.Fatalf("error = %v, want *api.HTTPError", got)
		}
		if he.Status != 404 {
			t.Errorf("status = %d, want 404", he.Status)
		}
		body, _ := he.Body.(map[string]any)
		if body["detail"] != "not found" {
			t.Errorf("body = %v, want detail=not found", he.Body)
		}
	})

	t.Run("successes pass through", func(t *testing.T) {
		values, err := Values(Of(api.Ok(item{"a"}), api.Ok(item{"b"})))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(values) != 2 || values[0].Name != "a" || values[1].Name != "b" {
			t.Errorf("values = %v, want [a b]", values)
		}
	})
}

func TestMute(t *testing.T) {
	results, err := Collect(Mute(Of(api.Fail[item](notFound(t)))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}

	if _, err := First(Mute(Of(api.Fail[item](notFound(t))))); !errors.Is(err, ErrEmpty) {
		t.Errorf("First error = %v, want ErrEmpty", err)
	}
}

func TestDispatch(t *testing.T) {
	var sunk []*api.HTTPError
	sink := ErrorSinkFunc(func(e *api.HTTPError) { sunk = append(sunk, e) })

	httpErr := notFound(t)
	results, err := Collect(Dispatch(Of(api.Fail[item](httpErr), api.Ok(item{"ok"})), sink))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sunk) != 1 || sunk[0] != httpErr {
		t.Errorf("sink received %v, want exactly the 404", sunk)
	}
	if len(results) != 1 || results[0].IsError() || results[0].Value().Name != "ok" {
		t.Errorf("results = %v, want the single success", results)
	}
}

func TestOnError(t *testing.T) {
	s := Of(api.Fail[item](notFound(t)), api.Ok(item{"ok"}))
	var got []Either[item, int]
	for e, err := range OnError(s, func(e *api.HTTPError) int { return e.Status }) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("got %d values, want 2", len(got))
	}
	if status, ok := got[0].Recovered(); !ok || status != 404 {
		t.Errorf("first = %+v, want recovered 404", got[0])
	}
	if v, ok := got[1].Value(); !ok || v.Name != "ok" {
		t.Errorf("second = %+v, want success ok", got[1])
	}
}

func TestRecover(t *testing.T) {
	v, err := First(Recover(Of(api.Fail[item](notFound(t))), func(*api.HTTPError) item {
		return item{"fallback"}
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsError() || v.Value().Name != "fallback" {
		t.Errorf("result = %+v, want fallback", v)
	}
}

// Transport failures go through every combinator untouched.
func TestCombinatorsKeepTransportFailures(t *testing.T) {
	boom := errors.New("connection refused")
	sink := ErrorSinkFunc(func(*api.HTTPError) { t.Error("sink must not see transport failures") })

	tests := []struct {
		name string
		run  func() error
	}{
		{"mute", func() error { _, err := First(Mute(Failed[item](boom))); return err }},
		{"dispatch", func() error { _, err := First(Dispatch(Failed[item](boom), sink)); return err }},
		{"recover", func() error {
			_, err := First(Recover(Failed[item](boom), func(*api.HTTPError) item { return item{} }))
			return err
		}},
		{"raise", func() error {
			for _, err := range Raise(Failed[item](boom)) {
				return err
			}
			return nil
		}},
		{"on error", func() error {
			for e, err := range OnError(Failed[item](boom), func(*api.HTTPError) int { return 0 }) {
				if e.IsRecovered() {
					t.Error("transport failure must not be recovered")
				}
				return err
			}
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, boom) {
				t.Errorf("error = %v, want %v", err, boom)
			}
		})
	}
}

func TestConcatAndEarlyStop(t *testing.T) {
	s := Concat(Of(api.Ok(item{"a"})), Of(api.Ok(item{"b"}), api.Ok(item{"c"})))
	var names []string
	for r := range s {
		names = append(names, r.Value().Name)
		if len(names) == 2 {
			break
		}
	}
	if len(names) != 2 || names[1] != "b" {
		t.Errorf("names = %v, want [a b]", names)
	}
}

func TestCollectStopsAtFailure(t *testing.T) {
	boom := errors.New("reset")
	results, err := Collect(Concat(Of(api.Ok(item{"a"})), Failed[item](boom), Of(api.Ok(item{"b"}))))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestFuture(t *testing.T) {
	release := make(chan struct{})
	f := Go(func() (api.Result[item], error) {
		<-release
		return api.Ok(item{"late"}), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait error = %v, want deadline exceeded", err)
	}

	close(release)
	for i := 0; i < 2; i++ {
		r, err := f.Wait(context.Background())
		if err != nil || r.Value().Name != "late" {
			t.Errorf("Wait #%d = %+v, %v; want late", i, r, err)
		}
	}
	v, err := Values(f.Stream())
	if err != nil || len(v) != 1 {
		t.Errorf("Stream values = %v, %v", v, err)
	}
}
