package pyyouwol

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/transport"
)

// Admin groups the /admin routers.
type Admin struct {
	router         *transport.Router
	CustomCommands *CustomCommands
	System         *System
	Environment    *Environment
	Projects       *Projects
}

func newAdmin(parent *transport.Router, conn func() (*live.Conn, error)) *Admin {
	r := parent.Sub("/admin")
	return &Admin{
		router:         r,
		CustomCommands: &CustomCommands{router: r.Sub("/custom-commands")},
		System:         &System{router: r.Sub("/system")},
		Environment:    &Environment{router: r.Sub("/environment"), conn: conn},
		Projects:       &Projects{router: r.Sub("/projects"), conn: conn},
	}
}

// CustomCommands runs the custom commands of the environment. Their
// responses are free-form JSON.
type CustomCommands struct {
	router *transport.Router
}

// Get runs command name with a GET.
func (c *CustomCommands) Get(ctx context.Context, name string, opts ...transport.CallOption) (api.Result[any], error) {
	return transport.Send[any](ctx, c.router, api.CommandQuery, "/"+name, nil, opts...)
}

// Post runs command name with a POST of body.
func (c *CustomCommands) Post(ctx context.Context, name string, body any, opts ...transport.CallOption) (api.Result[any], error) {
	return transport.Send[any](ctx, c.router, api.CommandUpdate, "/"+name, &transport.Request{JSON: body}, opts...)
}

// Put runs command name with a PUT of body.
func (c *CustomCommands) Put(ctx context.Context, name string, body any, opts ...transport.CallOption) (api.Result[any], error) {
	return transport.Send[any](ctx, c.router, api.CommandCreate, "/"+name, &transport.Request{JSON: body}, opts...)
}

// Delete runs command name with a DELETE.
func (c *CustomCommands) Delete(ctx context.Context, name string, opts ...transport.CallOption) (api.Result[any], error) {
	return transport.Send[any](ctx, c.router, api.CommandDelete, "/"+name, nil, opts...)
}

// System exposes the file system and logs of the server.
type System struct {
	router *transport.Router
}

func (s *System) FolderContent(ctx context.Context, path string, opts ...transport.CallOption) (api.Result[FolderContent], error) {
	req := &transport.Request{Method: "POST", JSON: map[string]string{"path": path}}
	return transport.Send[FolderContent](ctx, s.router, api.CommandQuery, "/folder-content", req, opts...)
}

// FileContent downloads the file at path. Check Blob.OK before using it.
func (s *System) FileContent(ctx context.Context, path string, opts ...transport.CallOption) (transport.Blob, error) {
	return s.router.Download(ctx, "/file/"+path, path, opts...)
}

// RootLogs returns at most maxCount root logs emitted after fromTimestamp.
func (s *System) RootLogs(ctx context.Context, fromTimestamp int64, maxCount int, opts ...transport.CallOption) (api.Result[LogsResponse], error) {
	req := &transport.Request{Query: url.Values{
		"from-timestamp": {strconv.FormatInt(fromTimestamp, 10)},
		"max-count":      {strconv.Itoa(maxCount)},
	}}
	return transport.Send[LogsResponse](ctx, s.router, api.CommandQuery, "/logs/", req, opts...)
}

// Logs returns the children logs of parentID.
func (s *System) Logs(ctx context.Context, parentID string, opts ...transport.CallOption) (api.Result[LogsResponse], error) {
	return transport.Send[LogsResponse](ctx, s.router, api.CommandQuery, fmt.Sprintf("/logs/%s", parentID), nil, opts...)
}
