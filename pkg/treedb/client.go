// Package treedb is the client of the tree database organizing items in
// folders, drives and groups.
package treedb

import (
	"context"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/transport"
)

const DefaultBasePath = "/api/treedb-backend"

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

func query[T any](ctx context.Context, c *Client, path string, opts []transport.CallOption) (api.Result[T], error) {
	return transport.Send[T](ctx, c.router, api.CommandQuery, path, nil, opts...)
}

func create[T any](ctx context.Context, c *Client, path string, body any, opts []transport.CallOption) (api.Result[T], error) {
	return transport.Send[T](ctx, c.router, api.CommandCreate, path, &transport.Request{JSON: body}, opts...)
}

func update[T any](ctx context.Context, c *Client, path string, body any, opts []transport.CallOption) (api.Result[T], error) {
	return transport.Send[T](ctx, c.router, api.CommandUpdate, path, &transport.Request{JSON: body}, opts...)
}

func remove[T any](ctx context.Context, c *Client, path string, opts []transport.CallOption) (api.Result[T], error) {
	return transport.Send[T](ctx, c.router, api.CommandDelete, path, nil, opts...)
}

func (c *Client) Healthz(ctx context.Context, opts ...transport.CallOption) (api.Result[HealthzResponse], error) {
	return query[HealthzResponse](ctx, c, "/healthz", opts)
}

// Drives

func (c *Client) CreateDrive(ctx context.Context, groupID string, body CreateDriveBody, opts ...transport.CallOption) (api.Result[Drive], error) {
	return create[Drive](ctx, c, "/groups/"+groupID+"/drives", body, opts)
}

func (c *Client) QueryDrives(ctx context.Context, groupID string, opts ...transport.CallOption) (api.Result[DrivesResponse], error) {
	return query[DrivesResponse](ctx, c, "/groups/"+groupID+"/drives", opts)
}

func (c *Client) UpdateDrive(ctx context.Context, driveID string, body RenameBody, opts ...transport.CallOption) (api.Result[Drive], error) {
	return update[Drive](ctx, c, "/drives/"+driveID, body, opts)
}

func (c *Client) GetDrive(ctx context.Context, driveID string, opts ...transport.CallOption) (api.Result[Drive], error) {
	return query[Drive](ctx, c, "/drives/"+driveID, opts)
}

// QueryDeleted lists the trashed entities of a drive.
func (c *Client) QueryDeleted(ctx context.Context, driveID string, opts ...transport.CallOption) (api.Result[ChildrenResponse], error) {
	return query[ChildrenResponse](ctx, c, "/drives/"+driveID+"/deleted", opts)
}

// PurgeDrive deletes the trashed entities of a drive for good.
func (c *Client) PurgeDrive(ctx context.Context, driveID string, opts ...transport.CallOption) (api.Result[PurgeResponse], error) {
	return remove[PurgeResponse](ctx, c, "/drives/"+driveID+"/purge", opts)
}

func (c *Client) DeleteDrive(ctx context.Context, driveID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return remove[struct{}](ctx, c, "/drives/"+driveID, opts)
}

// Folders

func (c *Client) CreateFolder(ctx context.Context, parentFolderID string, body CreateFolderBody, opts ...transport.CallOption) (api.Result[Folder], error) {
	return create[Folder](ctx, c, "/folders/"+parentFolderID, body, opts)
}

func (c *Client) UpdateFolder(ctx context.Context, folderID string, body RenameBody, opts ...transport.CallOption) (api.Result[Folder], error) {
	return update[Folder](ctx, c, "/folders/"+folderID, body, opts)
}

func (c *Client) GetFolder(ctx context.Context, folderID string, opts ...transport.CallOption) (api.Result[Folder], error) {
	return query[Folder](ctx, c, "/folders/"+folderID, opts)
}

// QueryChildren lists the items and folders directly under parentID.
func (c *Client) QueryChildren(ctx context.Context, parentID string, opts ...transport.CallOption) (api.Result[ChildrenResponse], error) {
	return query[ChildrenResponse](ctx, c, "/folders/"+parentID+"/children", opts)
}

func (c *Client) GetPathFolder(ctx context.Context, folderID string, opts ...transport.CallOption) (api.Result[PathResponse], error) {
	return query[PathResponse](ctx, c, "/folders/"+folderID+"/path", opts)
}

// TrashFolder moves a folder to the trash of its drive.
func (c *Client) TrashFolder(ctx context.Context, folderID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return remove[struct{}](ctx, c, "/folders/"+folderID, opts)
}

// Items

func (c *Client) CreateItem(ctx context.Context, folderID string, body CreateItemBody, opts ...transport.CallOption) (api.Result[Item], error) {
	return create[Item](ctx, c, "/folders/"+folderID+"/items", body, opts)
}

func (c *Client) UpdateItem(ctx context.Context, itemID string, body RenameBody, opts ...transport.CallOption) (api.Result[Item], error) {
	return update[Item](ctx, c, "/items/"+itemID, body, opts)
}

func (c *Client) GetItem(ctx context.Context, itemID string, opts ...transport.CallOption) (api.Result[Item], error) {
	return query[Item](ctx, c, "/items/"+itemID, opts)
}

// QueryItemsByRelatedID lists the items pointing to the same asset.
func (c *Client) QueryItemsByRelatedID(ctx context.Context, relatedID string, opts ...transport.CallOption) (api.Result[ItemsResponse], error) {
	return query[ItemsResponse](ctx, c, "/items/from-related/"+relatedID, opts)
}

// GetPath returns the drive and folders leading to an item.
func (c *Client) GetPath(ctx context.Context, itemID string, opts ...transport.CallOption) (api.Result[PathResponse], error) {
	return query[PathResponse](ctx, c, "/items/"+itemID+"/path", opts)
}

func (c *Client) TrashItem(ctx context.Context, itemID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return remove[struct{}](ctx, c, "/items/"+itemID, opts)
}

// Misc

// Move moves an item or a folder to another folder.
func (c *Client) Move(ctx context.Context, body MoveBody, opts ...transport.CallOption) (api.Result[MoveResponse], error) {
	return update[MoveResponse](ctx, c, "/move", body, opts)
}

// GetEntity resolves an id to the item, folder or drive it names.
func (c *Client) GetEntity(ctx context.Context, entityID string, opts ...transport.CallOption) (api.Result[EntityResponse], error) {
	return query[EntityResponse](ctx, c, "/entities/"+entityID, opts)
}
