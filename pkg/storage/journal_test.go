package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/storage"
	"github.com/youwol/httpclients/pkg/storage/memory"
)

func TestJournal_RecordsFollowerEvents(t *testing.T) {
	store := memory.New(0)
	j := storage.NewJournal(store, 0, nil)

	f := monitor.NewFollower("upload-1", api.CommandUpload, j)
	f.Start(10)
	f.ProgressTo(4)
	f.ProgressTo(10)
	f.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := store.Events(context.Background(), "upload-1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	want := []api.Step{api.StepStarted, api.StepTransferring, api.StepProcessing, api.StepFinished}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, r := range records {
		if r.Event.Step != want[i] {
			t.Errorf("record %d step = %s, want %s", i, r.Event.Step, want[i])
		}
	}
}

func TestJournal_PublishAfterCloseIsIgnored(t *testing.T) {
	store := memory.New(0)
	j := storage.NewJournal(store, 1, nil)
	if err := j.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	j.Publish(api.RequestEvent{RequestID: "late"})
	if store.Len() != 0 {
		t.Errorf("store has %d records, want 0", store.Len())
	}
}

// blockingStore blocks every Append until release is closed.
type blockingStore struct {
	*memory.Store
	release chan struct{}
}

func (b *blockingStore) Append(ctx context.Context, e api.RequestEvent, at time.Time) error {
	<-b.release
	return b.Store.Append(ctx, e, at)
}

func TestJournal_CloseHonorsContext(t *testing.T) {
	store := &blockingStore{Store: memory.New(0), release: make(chan struct{})}
	j := storage.NewJournal(store, 4, nil)
	j.Publish(api.RequestEvent{RequestID: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := j.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Close = %v, want deadline exceeded", err)
	}
	close(store.release)
}

func TestJournal_AppendErrorsDoNotStopTheJournal(t *testing.T) {
	store := memory.New(0)
	store.Close()
	j := storage.NewJournal(store, 4, nil)
	j.Publish(api.RequestEvent{RequestID: "a"})
	j.Publish(api.RequestEvent{RequestID: "b"})
	if err := j.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestJournal_FullQueueKeepsStartedAndFinished(t *testing.T) {
	store := &blockingStore{Store: memory.New(0), release: make(chan struct{})}
	j := storage.NewJournal(store, 1, nil)

	f := monitor.NewFollower("big", api.CommandDownload, j)
	f.Start(100)
	for n := int64(1); n < 100; n++ {
		f.ProgressTo(n)
	}
	f.End()
	close(store.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := store.Events(context.Background(), "big")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(records) < 2 || len(records) >= 101 {
		t.Fatalf("got %d records, want progress dropped around started and finished", len(records))
	}
	if first, last := records[0].Event.Step, records[len(records)-1].Event.Step; first != api.StepStarted || last != api.StepFinished {
		t.Errorf("steps = %s..%s, want started..finished", first, last)
	}
}
