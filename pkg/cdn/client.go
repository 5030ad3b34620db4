// Package cdn is the client of the CDN backend serving published packages.
package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/transport"
)

const DefaultBasePath = "/api/cdn-backend"

// Options configures a Client.
type Options struct {
	BasePath string
	Headers  map[string]string
}

type Client struct {
	router *transport.Router
}

// New creates a Client. The defaults of c are read here.
func New(c *transport.Client, opts Options) *Client {
	base := opts.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	return &Client{router: transport.NewRootRouter(c, base, opts.Headers)}
}

func (c *Client) Router() *transport.Router { return c.router }

func (c *Client) Healthz(ctx context.Context, opts ...transport.CallOption) (api.Result[HealthzResponse], error) {
	return transport.Send[HealthzResponse](ctx, c.router, api.CommandQuery, "/healthz", nil, opts...)
}

// LibraryInfo returns the published versions of a library.
func (c *Client) LibraryInfo(ctx context.Context, libraryID string, opts ...transport.CallOption) (api.Result[LibraryInfo], error) {
	return transport.Send[LibraryInfo](ctx, c.router, api.CommandQuery, "/libraries/"+libraryID, nil, opts...)
}

// VersionInfo returns the description of one version of a library.
func (c *Client) VersionInfo(ctx context.Context, libraryID, version string, opts ...transport.CallOption) (api.Result[VersionInfo], error) {
	path := fmt.Sprintf("/libraries/%s/%s", libraryID, version)
	return transport.Send[VersionInfo](ctx, c.router, api.CommandQuery, path, nil, opts...)
}

// DeleteLibrary deletes every version of a library.
func (c *Client) DeleteLibrary(ctx context.Context, libraryID string, opts ...transport.CallOption) (api.Result[DeleteLibraryResponse], error) {
	return transport.Send[DeleteLibraryResponse](ctx, c.router, api.CommandDelete, "/libraries/"+libraryID, nil, opts...)
}

// EntryPoint downloads the entry point of a library version.
func (c *Client) EntryPoint(ctx context.Context, libraryID, version string, opts ...transport.CallOption) (transport.Blob, error) {
	path := fmt.Sprintf("/resources/%s/%s", libraryID, version)
	return c.router.Download(ctx, path, libraryID, opts...)
}

// Resource downloads the file at restOfPath in a library version.
func (c *Client) Resource(ctx context.Context, libraryID, version, restOfPath string, opts ...transport.CallOption) (transport.Blob, error) {
	path := fmt.Sprintf("/resources/%s/%s/%s", libraryID, version, restOfPath)
	return c.router.Download(ctx, path, libraryID, opts...)
}

// DownloadLibrary downloads the zip of a library version.
func (c *Client) DownloadLibrary(ctx context.Context, libraryID, version string, opts ...transport.CallOption) (transport.Blob, error) {
	path := fmt.Sprintf("/download-library/%s/%s", libraryID, version)
	return c.router.Download(ctx, path, "library", opts...)
}

// Upload publishes the zip of a package. folderID is only used when the
// backend is reached through the assets gateway.
func (c *Client) Upload(ctx context.Context, fileName string, body io.Reader, size int64, folderID string, opts ...transport.CallOption) (api.Result[PublishResponse], error) {
	path := "/publish-library"
	if folderID != "" {
		path += "?" + url.Values{"folder-id": {folderID}}.Encode()
	}
	file := transport.File{Name: fileName, Body: body, Size: size}
	return transport.Upload[PublishResponse](ctx, c.router, http.MethodPost, path, file, opts...)
}

// Explorer lists the folder restOfPath of a library version. libraryName
// is base64 encoded.
func (c *Client) Explorer(ctx context.Context, libraryName, version, restOfPath string, opts ...transport.CallOption) (api.Result[ExplorerResponse], error) {
	path := fmt.Sprintf("/explorer/%s/%s/%s", libraryName, version, restOfPath)
	return transport.Send[ExplorerResponse](ctx, c.router, api.CommandQuery, path, nil, opts...)
}
