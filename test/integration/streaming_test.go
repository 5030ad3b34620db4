package integration

import (
	"bytes"
	"context"
	"slices"
	"testing"
	"time"

	"github.com/youwol/httpclients/internal/mockbackend"
	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/files"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/monitor"
	"github.com/youwol/httpclients/pkg/pipe"
	"github.com/youwol/httpclients/pkg/pyyouwol"
	"github.com/youwol/httpclients/pkg/transport"
)

func TestUploadDownloadProgress(t *testing.T) {
	ctx := testContext(t)
	fc := files.New(testEnv.Client, files.Options{})
	content := bytes.Repeat([]byte("0123456789abcdef"), 6400)
	rec := &monitor.Recorder{}

	uploaded := value(t, pipe.Single(fc.Upload(ctx, files.UploadRequest{
		FileName: "data.bin",
		Body:     bytes.NewReader(content),
		Size:     int64(len(content)),
		FileID:   "progress-1",
	}, transport.WithMonitoring("up-1", rec))))
	if uploaded.FileID != "progress-1" || uploaded.FileName != "data.bin" {
		t.Errorf("upload response = %+v", uploaded)
	}

	up := rec.For("up-1")
	want := []api.Step{api.StepStarted, api.StepTransferring, api.StepProcessing, api.StepFinished}
	if got := steps(up); !slices.Equal(got, want) {
		t.Errorf("upload steps = %v, want %v", got, want)
	}
	if last := up[len(up)-1]; last.TransferredCount != int64(len(content)) || last.TotalCount != int64(len(content)) {
		t.Errorf("upload finished at %d/%d", last.TransferredCount, last.TotalCount)
	}

	blob, err := fc.Get(ctx, "progress-1", transport.WithMonitoring("down-1", rec))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !blob.OK() || !bytes.Equal(blob.Data, content) {
		t.Fatalf("download status %d, %d bytes", blob.StatusCode, len(blob.Data))
	}

	down := rec.For("down-1")
	if len(down) < 2 || down[0].Step != api.StepStarted || !down[len(down)-1].Terminal() {
		t.Fatalf("download events = %+v", down)
	}
	if last := down[len(down)-1]; last.TransferredCount != int64(len(content)) || last.CommandType != api.CommandDownload {
		t.Errorf("download finished = %+v", last)
	}
	for i := 1; i < len(down); i++ {
		if down[i].TransferredCount < down[i-1].TransferredCount {
			t.Errorf("transferred count decreased at event %d", i)
		}
	}
}

func TestDownloadOfMissingFileKeepsStatus(t *testing.T) {
	ctx := testContext(t)
	blob, err := files.New(testEnv.Client, files.Options{}).Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blob.OK() || blob.StatusCode != 404 {
		t.Errorf("status = %d, want 404", blob.StatusCode)
	}
}

func receive(t *testing.T, ch <-chan live.ContextMessage) live.ContextMessage {
	t.Helper()
	select {
	case m, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed")
		}
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a live message")
	}
	return live.ContextMessage{}
}

func TestLiveEnvironmentStatus(t *testing.T) {
	ctx := testContext(t)
	py := pyyouwol.New(testEnv.Client, pyyouwol.Options{})
	conn, err := py.Live()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	statuses, cancelStatus, err := py.Admin.Environment.WatchStatus(mockbackend.Profile, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cancelStatus()
	projects, cancelProjects, err := py.Admin.Projects.WatchStatus(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cancelProjects()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- conn.Run(runCtx) }()
	defer func() {
		stop()
		<-done
	}()

	// Sent on connection.
	initial, err := live.DecodeData[pyyouwol.EnvironmentStatus](receive(t, statuses))
	if err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if initial.Configuration.ActiveProfile != mockbackend.Profile {
		t.Errorf("active profile = %q", initial.Configuration.ActiveProfile)
	}
	loaded, err := live.DecodeData[pyyouwol.ProjectsLoadingResults](receive(t, projects))
	if err != nil || len(loaded.Results) != 2 {
		t.Fatalf("projects = %+v (%v)", loaded, err)
	}

	// A login is followed by a fresh status.
	value(t, pipe.Single(py.Admin.Environment.Login(ctx, "alice@youwol.com")))
	after, err := live.DecodeData[pyyouwol.EnvironmentStatus](receive(t, statuses))
	if err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if after.Configuration.UserEmail != "alice@youwol.com" {
		t.Errorf("user email = %q after login", after.Configuration.UserEmail)
	}

	// Messages of other profiles are filtered out.
	testEnv.Backend.Emit(live.ContextMessage{
		ContextID:  "other",
		Labels:     []string{pyyouwol.EnvironmentStatusLabel},
		Attributes: map[string]string{"profile": "other"},
	})
	testEnv.Backend.Emit(live.ContextMessage{
		ContextID:  "mine",
		Labels:     []string{pyyouwol.EnvironmentStatusLabel},
		Attributes: map[string]string{"profile": mockbackend.Profile},
	})
	if m := receive(t, statuses); m.ContextID != "mine" {
		t.Errorf("context id = %q, want mine", m.ContextID)
	}
}
