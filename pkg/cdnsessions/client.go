// Package cdnsessions is the client of the storage applications use to
// persist small JSON documents per user.
package cdnsessions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/transport"
)

const BasePath = "/api/cdn-sessions-storage"

// Client is the root router of the storage.
type Client struct {
	router       *transport.Router
	Applications *Applications
}

// New creates a Client. The defaults of c are read here.
func New(c *transport.Client, headers map[string]string) *Client {
	r := transport.NewRootRouter(c, BasePath, headers)
	return &Client{router: r, Applications: &Applications{router: r.Sub("/applications")}}
}

func (c *Client) Router() *transport.Router { return c.router }

func (c *Client) Healthz(ctx context.Context, opts ...transport.CallOption) (api.Result[map[string]any], error) {
	return transport.Send[map[string]any](ctx, c.router, api.CommandQuery, "/healthz", nil, opts...)
}

// Applications stores documents under a package and a name.
type Applications struct {
	router *transport.Router
}

func dataPath(packageName, dataName string) string {
	return fmt.Sprintf("/%s/%s", url.PathEscape(packageName), url.PathEscape(dataName))
}

// PostData saves body as the document dataName of packageName.
func (a *Applications) PostData(ctx context.Context, packageName, dataName string, body any, opts ...transport.CallOption) (api.Result[struct{}], error) {
	req := &transport.Request{JSON: body}
	return transport.Send[struct{}](ctx, a.router, api.CommandUpload, dataPath(packageName, dataName), req, opts...)
}

// GetData returns the document dataName of packageName, decoded into T.
func GetData[T any](ctx context.Context, a *Applications, packageName, dataName string, opts ...transport.CallOption) (api.Result[T], error) {
	return transport.Send[T](ctx, a.router, api.CommandDownload, dataPath(packageName, dataName), nil, opts...)
}
