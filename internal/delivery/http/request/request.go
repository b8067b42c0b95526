package request

// AcquireRequest is the body of POST /api/acquire.
type AcquireRequest struct {
	URL          string `json:"url"`
	ForceRefresh bool   `json:"force_refresh"`
}
