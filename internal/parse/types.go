package parse

// Page is one parsed page as returned by the parse service's JSON result.
type Page struct {
	Page     int               `json:"page"`
	Text     string            `json:"text"`
	Markdown string            `json:"md"`
	Images   []ImageDescriptor `json:"images"`
}

// ImageDescriptor identifies an image embedded in a parsed page. The actual
// bytes live on the parse service until downloaded.
type ImageDescriptor struct {
	Name   string `json:"name"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ImageRef points at an image downloaded into the output directory.
type ImageRef struct {
	Name string
	Page int32
	Path string
}

// Result is a completed parse job: the job handle plus its pages.
type Result struct {
	JobID string
	Pages []Page
}

type uploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type jobStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error_message"`
}

type jsonResultResponse struct {
	Pages []Page `json:"pages"`
}
