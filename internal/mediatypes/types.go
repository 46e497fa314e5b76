package mediatypes

// Kind classifies a media file by its extension.
type Kind string

const (
	// KindImage represents a still image file.
	KindImage Kind = "image"
	// KindGif represents an animated GIF.
	KindGif Kind = "gif"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindOther represents an unsupported file type.
	KindOther Kind = "other"
)

// ImageExtensions maps file extensions to whether they are supported still
// image formats.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".webp": true, ".bmp": true, ".tiff": true, ".tif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true,
	".m4v": true, ".avi": true, ".mkv": true,
}

// KindOf returns the Kind for a lowercase file extension (including the dot).
func KindOf(ext string) Kind {
	if ext == ".gif" {
		return KindGif
	}
	if ImageExtensions[ext] {
		return KindImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// IsSupported reports whether the extension belongs to any supported media format.
func IsSupported(ext string) bool {
	return KindOf(ext) != KindOther
}

// IsVideo reports whether the extension is a supported video format.
func IsVideo(ext string) bool {
	return VideoExtensions[ext]
}

// ExifCapable reports whether files with this extension can carry EXIF metadata.
// Only JPEG and TIFF reliably embed the date tags we read.
func ExifCapable(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".tiff", ".tif":
		return true
	}
	return false
}

// MimeType returns the MIME type for a lowercase file extension.
func MimeType(ext string) string {
	mimeTypes := map[string]string{
		".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png",
		".gif": "image/gif", ".bmp": "image/bmp", ".webp": "image/webp",
		".tiff": "image/tiff", ".tif": "image/tiff",
		".mp4": "video/mp4", ".webm": "video/webm", ".mov": "video/quicktime",
		".m4v": "video/x-m4v", ".avi": "video/x-msvideo", ".mkv": "video/x-matroska",
	}
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
