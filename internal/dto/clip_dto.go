package dto

// CreateClipRequest carries the stored media URLs. Upload itself happens
// against the media pipeline; by the time this service hears about a
// clip the files already live somewhere.
type CreateClipRequest struct {
	VideoURL     string  `json:"video_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
