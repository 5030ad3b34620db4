package monitor

import (
	"testing"

	"github.com/youwol/httpclients/pkg/api"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster[int]("test")
	ch1, cancel1 := b.Subscribe(4)
	ch2, cancel2 := b.Subscribe(4)
	defer cancel1()
	defer cancel2()

	b.Publish(1)
	b.Publish(2)

	for i, ch := range []<-chan int{ch1, ch2} {
		if got := <-ch; got != 1 {
			t.Errorf("subscriber %d first = %d, want 1", i, got)
		}
		if got := <-ch; got != 2 {
			t.Errorf("subscriber %d second = %d, want 2", i, got)
		}
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster[string]("test")
	ch, cancel := b.Subscribe(1)
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}

	cancel()
	cancel() // idempotent

	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}

	// Publishing with no subscribers is fine.
	b.Publish("ignored")
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster[int]("test")
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(1)
	b.Publish(2) // buffer full, dropped

	if got := <-ch; got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected value %d", v)
	default:
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster[int]("test")
	ch, _ := b.Subscribe(1)
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}

	late, _ := b.Subscribe(1)
	if _, ok := <-late; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}

func TestChannelAsSink(t *testing.T) {
	c := NewChannel()
	events, cancel := c.Subscribe(8)
	defer cancel()

	f := NewFollower("req", api.CommandQuery, c)
	f.Start(1)
	f.End()

	first, second := <-events, <-events
	if first.Step != api.StepStarted || second.Step != api.StepFinished {
		t.Errorf("steps = (%s, %s), want (started, finished)", first.Step, second.Step)
	}
}

func TestRecorder_For(t *testing.T) {
	rec := &Recorder{}
	rec.Publish(api.RequestEvent{RequestID: "a", Step: api.StepStarted})
	rec.Publish(api.RequestEvent{RequestID: "b", Step: api.StepStarted})
	rec.Publish(api.RequestEvent{RequestID: "a", Step: api.StepFinished})

	if got := len(rec.For("a")); got != 2 {
		t.Errorf("len(For(a)) = %d, want 2", got)
	}
	rec.Reset()
	if got := len(rec.Events()); got != 0 {
		t.Errorf("len(Events()) after Reset = %d, want 0", got)
	}
}

func TestBroadcaster_SubscribeFunc(t *testing.T) {
	b := NewBroadcaster[int]("test")
	even, cancel := b.SubscribeFunc(4, func(v int) bool { return v%2 == 0 })
	defer cancel()

	for i := 1; i <= 4; i++ {
		b.Publish(i)
	}
	if got := <-even; got != 2 {
		t.Errorf("first = %d, want 2", got)
	}
	if got := <-even; got != 4 {
		t.Errorf("second = %d, want 4", got)
	}
}

func TestChannel_SlowSubscriberKeepsTerminalEvents(t *testing.T) {
	c := NewChannel()
	defer c.Close()
	events, cancel := c.Subscribe(2)
	defer cancel()

	f := NewFollower("req", api.CommandDownload, c)
	f.Start(1000)
	for n := int64(1); n < 1000; n++ {
		f.ProgressTo(n)
	}
	f.End()

	var got []api.RequestEvent
	for e := range events {
		got = append(got, e)
		if e.Terminal() {
			break
		}
	}
	if got[0].Step != api.StepStarted {
		t.Errorf("first step = %s, want started", got[0].Step)
	}
	finished := 0
	for _, e := range got {
		if e.Step == api.StepFinished {
			finished++
		}
	}
	if finished != 1 || got[len(got)-1].Step != api.StepFinished {
		t.Errorf("got %d finished events, last %s; want exactly one, last", finished, got[len(got)-1].Step)
	}
	if len(got) > 4 {
		t.Errorf("got %d events through a buffer of 2, want progress dropped", len(got))
	}
}

func TestChannel_CloseWhileFlushing(t *testing.T) {
	c := NewChannel()
	events, _ := c.Subscribe(1)

	c.Publish(api.RequestEvent{RequestID: "a", Step: api.StepStarted})
	c.Publish(api.RequestEvent{RequestID: "b", Step: api.StepStarted})
	c.Publish(api.RequestEvent{RequestID: "a", Step: api.StepFinished})
	c.Close()

	// The buffered value may still arrive; the channel must close after it.
	for range events {
	}
	c.Publish(api.RequestEvent{RequestID: "late", Step: api.StepStarted})
}
