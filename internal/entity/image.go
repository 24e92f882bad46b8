package entity

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ImageMetadata struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	StorageKey   string   `json:"storageKey,omitempty"`
	Location     Location `json:"location"`
	UploadedBy   string   `json:"uploadedBy,omitempty"`
	UploadedAt   string   `json:"uploadedAt,omitempty"`
	IsPublic     bool     `json:"isPublic"`
	Tags         []string `json:"tags,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}
