package mediatypes

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		ext  string
		want Kind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".png", KindImage},
		{".webp", KindImage},
		{".gif", KindGif},
		{".mp4", KindVideo},
		{".mkv", KindVideo},
		{".txt", KindOther},
		{".pdf", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		if got := KindOf(tt.ext); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestExifCapable(t *testing.T) {
	capable := []string{".jpg", ".jpeg", ".tiff", ".tif"}
	for _, ext := range capable {
		if !ExifCapable(ext) {
			t.Errorf("expected %s to be EXIF capable", ext)
		}
	}

	// PNG and video formats never carry the date tags we read.
	for _, ext := range []string{".png", ".gif", ".webp", ".mp4"} {
		if ExifCapable(ext) {
			t.Errorf("expected %s not to be EXIF capable", ext)
		}
	}
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".mp4", "video/mp4"},
		{".bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeType(tt.ext); got != tt.want {
			t.Errorf("MimeType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported(".jpg") || !IsSupported(".gif") || !IsSupported(".mp4") {
		t.Error("expected media extensions to be supported")
	}
	if IsSupported(".exe") {
		t.Error("expected .exe to be unsupported")
	}
}
