package treedb

import "encoding/json"

type HealthzResponse struct {
	Status string `json:"status"`
}

type CreateDriveBody struct {
	Name     string `json:"name"`
	DriveID  string `json:"driveId,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

// RenameBody is the body of the update endpoints.
type RenameBody struct {
	Name string `json:"name"`
}

type Drive struct {
	DriveID  string `json:"driveId"`
	GroupID  string `json:"groupId"`
	Name     string `json:"name"`
	Metadata string `json:"metadata"`
}

type DrivesResponse struct {
	Drives []Drive `json:"drives"`
}

type CreateFolderBody struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Metadata string `json:"metadata,omitempty"`
	FolderID string `json:"folderId,omitempty"`
}

type Folder struct {
	FolderID       string `json:"folderId"`
	ParentFolderID string `json:"parentFolderId"`
	DriveID        string `json:"driveId"`
	GroupID        string `json:"groupId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Metadata       string `json:"metadata"`
}

type CreateItemBody struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Metadata  string `json:"metadata,omitempty"`
	ItemID    string `json:"itemId,omitempty"`
	RelatedID string `json:"relatedId"`
}

type Item struct {
	ItemID    string `json:"itemId"`
	RelatedID string `json:"relatedId"`
	FolderID  string `json:"folderId"`
	DriveID   string `json:"driveId"`
	GroupID   string `json:"groupId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Metadata  string `json:"metadata"`
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

// PathResponse is the location of an entity; Item is nil for folders.
type PathResponse struct {
	Item    *Item    `json:"item,omitempty"`
	Folders []Folder `json:"folders"`
	Drive   Drive    `json:"drive"`
}

type ChildrenResponse struct {
	Items   []Item   `json:"items"`
	Folders []Folder `json:"folders"`
}

type MoveBody struct {
	TargetID            string `json:"targetId"`
	DestinationFolderID string `json:"destinationFolderId"`
}

type MoveResponse struct {
	FoldersCount int    `json:"foldersCount"`
	Items        []Item `json:"items"`
}

type PurgeResponse struct {
	FoldersCount int    `json:"foldersCount"`
	ItemsCount   int    `json:"itemsCount"`
	Items        []Item `json:"items"`
}

// EntityResponse holds an item, a folder or a drive depending on
// EntityType; decode Entity accordingly.
type EntityResponse struct {
	EntityType string          `json:"entityType"`
	Entity     json.RawMessage `json:"entity"`
}
