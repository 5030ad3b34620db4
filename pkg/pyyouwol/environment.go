package pyyouwol

import (
	"context"
	"net/http"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/transport"
)

// EnvironmentStatusLabel labels the environment status messages.
const EnvironmentStatusLabel = "EnvironmentStatusResponse"

// Environment manages the configuration of the server.
type Environment struct {
	router *transport.Router
	conn   func() (*live.Conn, error)
}

// Login switches the server to the user with the given email.
func (e *Environment) Login(ctx context.Context, email string, opts ...transport.CallOption) (api.Result[LoginResponse], error) {
	req := &transport.Request{JSON: map[string]string{"email": email}}
	return transport.Send[LoginResponse](ctx, e.router, api.CommandUpload, "/login", req, opts...)
}

// Status returns the environment status.
func (e *Environment) Status(ctx context.Context, opts ...transport.CallOption) (api.Result[EnvironmentStatus], error) {
	return transport.Send[EnvironmentStatus](ctx, e.router, api.CommandQuery, "/status", nil, opts...)
}

// SwitchProfile activates the configuration profile named active.
func (e *Environment) SwitchProfile(ctx context.Context, active string, opts ...transport.CallOption) (api.Result[EnvironmentStatus], error) {
	req := &transport.Request{Method: http.MethodPut, JSON: map[string]string{"active": active}}
	return transport.Send[EnvironmentStatus](ctx, e.router, api.CommandUpdate, "/configuration/profiles/active", req, opts...)
}

// ReloadConfig reloads the configuration file.
func (e *Environment) ReloadConfig(ctx context.Context, opts ...transport.CallOption) (api.Result[map[string]any], error) {
	req := &transport.Request{Method: http.MethodPost}
	return transport.Send[map[string]any](ctx, e.router, api.CommandUpdate, "/configuration", req, opts...)
}

// WatchStatus streams the environment status messages of the live
// connection, restricted to profile when it is not empty. The data of the
// messages decodes to EnvironmentStatus.
func (e *Environment) WatchStatus(profile string, buffer int) (<-chan live.ContextMessage, func(), error) {
	f := live.WithLabels(EnvironmentStatusLabel)
	if profile != "" {
		f.Attributes = map[string]live.Matcher{"profile": live.Equals(profile)}
	}
	return watch(e.conn, f, buffer)
}
