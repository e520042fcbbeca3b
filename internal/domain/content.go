package domain

// GeneratedContent is the listing copy produced by the AI describer.
type GeneratedContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// DescribeHints are optional merchant inputs steering the generated copy.
type DescribeHints struct {
	Category string   `json:"category,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// ImagePart is one image handed to the describer.
type ImagePart struct {
	Data     []byte
	MIMEType string
}

// UploadedImage describes a locally stored product photo.
type UploadedImage struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}
