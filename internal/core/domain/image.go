package domain

// UploadedImage is the raw upload as received; it lives for one request only.
type UploadedImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// NormalizedImage is the square, re-encoded picture handed to object storage.
type NormalizedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
