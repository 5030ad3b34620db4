package files

type PostFileResponse struct {
	FileID          string `json:"fileId"`
	FileName        string `json:"fileName"`
	ContentType     string `json:"contentType"`
	ContentEncoding string `json:"contentEncoding"`
}

type Metadata struct {
	ContentEncoding string `json:"contentEncoding"`
	ContentType     string `json:"contentType"`
	FileName        string `json:"fileName"`
}

type InfoResponse struct {
	Metadata Metadata `json:"metadata"`
}

// MetadataUpdate leaves empty fields unchanged.
type MetadataUpdate struct {
	ContentEncoding string `json:"contentEncoding,omitempty"`
	ContentType     string `json:"contentType,omitempty"`
	FileName        string `json:"fileName,omitempty"`
}
