// Package files is the client of the files backend, which stores raw files
// with their content type and encoding.
package files

import (
	"context"
	"io"
	"net/url"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/transport"
)

// DefaultBasePath is where the backend is mounted on a youwol host.
const DefaultBasePath = "/api/files-backend"

// Options configures a Client.
type Options struct {
	// BasePath defaults to DefaultBasePath.
	BasePath string
	Headers  map[string]string
}

// Client is the root router of the files backend.
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

// Router returns the root router.
func (c *Client) Router() *transport.Router { return c.router }

// UploadRequest describes a file to upload.
type UploadRequest struct {
	FileName string
	Body     io.Reader
	Size     int64

	// FileID is generated by the backend when empty.
	FileID string

	// FolderID is the destination folder when the backend is reached
	// through the assets gateway.
	FolderID string
}

// Upload stores a file.
func (c *Client) Upload(ctx context.Context, req UploadRequest, opts ...transport.CallOption) (api.Result[PostFileResponse], error) {
	if req.FolderID != "" {
		opts = append([]transport.CallOption{transport.WithQuery(url.Values{"folder-id": {req.FolderID}})}, opts...)
	}
	file := transport.File{
		Name: req.FileName,
		Body: req.Body,
		Size: req.Size,
		Fields: map[string]string{
			"file_id":   req.FileID,
			"file_name": req.FileName,
		},
	}
	return transport.Upload[PostFileResponse](ctx, c.router, "", "/files", file, opts...)
}

// Info returns the statistics of a file.
func (c *Client) Info(ctx context.Context, fileID string, opts ...transport.CallOption) (api.Result[InfoResponse], error) {
	return transport.Send[InfoResponse](ctx, c.router, api.CommandQuery, filePath(fileID)+"/info", nil, opts...)
}

// UpdateMetadata updates the non-empty fields of body.
func (c *Client) UpdateMetadata(ctx context.Context, fileID string, body MetadataUpdate, opts ...transport.CallOption) (api.Result[struct{}], error) {
	req := &transport.Request{JSON: body}
	return transport.Send[struct{}](ctx, c.router, api.CommandUpdate, filePath(fileID)+"/metadata", req, opts...)
}

// Get downloads a file.
func (c *Client) Get(ctx context.Context, fileID string, opts ...transport.CallOption) (transport.Blob, error) {
	return c.router.Download(ctx, filePath(fileID), fileID, opts...)
}

// Remove deletes a file.
func (c *Client) Remove(ctx context.Context, fileID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return transport.Send[struct{}](ctx, c.router, api.CommandDelete, filePath(fileID), nil, opts...)
}

func filePath(fileID string) string {
	return "/files/" + url.PathEscape(fileID)
}
