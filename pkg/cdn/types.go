package cdn

type HealthzResponse struct {
	Status string `json:"status"`
}

type Release struct {
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint"`
}

type LibraryInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Namespace string    `json:"namespace"`
	Versions  []string  `json:"versions"`
	Releases  []Release `json:"releases"`
}

type VersionInfo struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Type         string            `json:"type"`
	Fingerprint  string            `json:"fingerprint"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type DeleteLibraryResponse struct {
	DeletedVersionsCount int `json:"deletedVersionsCount"`
}

type PublishResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Version        string `json:"version"`
	Fingerprint    string `json:"fingerprint"`
	CompressedSize int64  `json:"compressedSize"`
}

type FolderResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type FileResponse struct {
	Name     string `json:"name"`
	Encoding string `json:"encoding"`
	Size     int64  `json:"size"`
}

type ExplorerResponse struct {
	Size    int64            `json:"size"`
	Folders []FolderResponse `json:"folders"`
	Files   []FileResponse   `json:"files"`
}
