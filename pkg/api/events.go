package api

// Step is a lifecycle stage of a monitored request.
type Step string

const (
	StepStarted      Step = "started"
	StepTransferring Step = "transferring"
	StepProcessing   Step = "processing"
	StepFinished     Step = "finished"
)

// UnknownTotal marks a RequestEvent whose total size is not known.
const UnknownTotal int64 = -1

// RequestEvent is one lifecycle notification for a single request.
type RequestEvent struct {
	RequestID        string  `json:"requestId"`
	CommandType      Command `json:"commandType"`
	Step             Step    `json:"step"`
	TransferredCount int64   `json:"transferredCount"`
	TotalCount       int64   `json:"totalCount"`
}

// Terminal reports whether e is the last event of its request.
func (e RequestEvent) Terminal() bool {
	return e.Step == StepFinished
}

// Droppable reports whether e may be skipped by a lagging consumer. Progress
// steps are superseded by the next one; started and finished are not.
func (e RequestEvent) Droppable() bool {
	return e.Step == StepTransferring || e.Step == StepProcessing
}
