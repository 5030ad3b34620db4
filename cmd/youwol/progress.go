package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/monitor"
)

// progress prints the transfer of one request on a single terminal line.
type progress struct {
	mu    sync.Mutex
	w     io.Writer
	label string
}

func newProgress(w io.Writer, label string) monitor.Sink {
	return &progress{w: w, label: label}
}

func (p *progress) Publish(e api.RequestEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Step {
	case api.StepStarted:
		fmt.Fprintf(p.w, "%s: started", p.label)
	case api.StepTransferring:
		if e.TotalCount > 0 {
			fmt.Fprintf(p.w, "\r%s: %s / %s (%d%%)", p.label,
				humanBytes(e.TransferredCount), humanBytes(e.TotalCount),
				e.TransferredCount*100/e.TotalCount)
		} else {
			fmt.Fprintf(p.w, "\r%s: %s", p.label, humanBytes(e.TransferredCount))
		}
	case api.StepProcessing:
		fmt.Fprintf(p.w, "\r%s: processing", p.label)
	case api.StepFinished:
		fmt.Fprintf(p.w, "\r%s: done (%s)\n", p.label, humanBytes(e.TransferredCount))
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
