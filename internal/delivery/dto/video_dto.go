package dto

// FinalizeResponse carries the playable URL of a merged video.
type FinalizeResponse struct {
	VideoURL string `json:"video_url"`
}
