package pyyouwol

import (
	"context"
	"fmt"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/transport"
)

// Labels of the project messages of the live connection.
const (
	ProjectsLoadingLabel = "ProjectsLoadingResults"
	PipelineStatusLabel  = "PipelineStatusResponse"
	StepStatusLabel      = "PipelineStepStatusResponse"
)

// Projects queries and runs the pipelines of local projects.
type Projects struct {
	router *transport.Router
	conn   func() (*live.Conn, error)
}

// Status returns the result of loading the projects.
func (p *Projects) Status(ctx context.Context, opts ...transport.CallOption) (api.Result[ProjectsLoadingResults], error) {
	return transport.Send[ProjectsLoadingResults](ctx, p.router, api.CommandQuery, "/status", nil, opts...)
}

// FlowStatus returns the status of every step of a flow.
func (p *Projects) FlowStatus(ctx context.Context, projectID, flowID string, opts ...transport.CallOption) (api.Result[PipelineStatus], error) {
	path := fmt.Sprintf("/%s/flows/%s", projectID, flowID)
	return transport.Send[PipelineStatus](ctx, p.router, api.CommandQuery, path, nil, opts...)
}

// RunStep runs one step of a flow.
func (p *Projects) RunStep(ctx context.Context, projectID, flowID, stepID string, opts ...transport.CallOption) (api.Result[PipelineStatus], error) {
	path := fmt.Sprintf("/%s/flows/%s/steps/%s/run", projectID, flowID, stepID)
	return transport.Send[PipelineStatus](ctx, p.router, api.CommandUpdate, path, nil, opts...)
}

// WatchStatus streams the project loading messages; their data decodes to
// ProjectsLoadingResults.
func (p *Projects) WatchStatus(buffer int) (<-chan live.ContextMessage, func(), error) {
	return watch(p.conn, live.WithLabels(ProjectsLoadingLabel), buffer)
}

// WatchPipelineStatus streams the pipeline status messages.
func (p *Projects) WatchPipelineStatus(buffer int) (<-chan live.ContextMessage, func(), error) {
	return watch(p.conn, live.WithLabels(PipelineStatusLabel), buffer)
}

// WatchStepStatus streams the step status messages.
func (p *Projects) WatchStepStatus(buffer int) (<-chan live.ContextMessage, func(), error) {
	return watch(p.conn, live.WithLabels(StepStatusLabel), buffer)
}
