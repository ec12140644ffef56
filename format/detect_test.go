package format

import (
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PNG, "PNG"},
		{JPEG, "JPEG"},
		{TIFF, "TIFF"},
		{PDF, "PDF"},
		{HOCR, "hOCR"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PNG, ".png"},
		{JPEG, ".jpg"},
		{TIFF, ".tiff"},
		{PDF, ".pdf"},
		{HOCR, ".hocr"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_IsImage(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{PNG, true},
		{JPEG, true},
		{TIFF, true},
		{PDF, false},
		{HOCR, false},
		{Unknown, false},
	}

	for _, tt := range tests {
		if got := tt.format.IsImage(); got != tt.want {
			t.Errorf("%v.IsImage() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"scan.png", PNG},
		{"scan.PNG", PNG},
		{"scan.Png", PNG},
		{"scan.jpg", JPEG},
		{"scan.JPG", JPEG},
		{"scan.jpeg", JPEG},
		{"scan.JPEG", JPEG},
		{"scan.tif", TIFF},
		{"scan.tiff", TIFF},
		{"scan.TIFF", TIFF},
		{"scan.pdf", PDF},
		{"scan.PDF", PDF},
		{"scan.hocr", HOCR},
		{"scan.html", HOCR},
		{"scan.HTML", HOCR},
		{"scan.htm", HOCR},
		{"scan.txt", Unknown},
		{"scan", Unknown},
		{"", Unknown},
		{"/path/to/cert.png", PNG},
		{"/path/to/cert.jpeg", JPEG},
		{"/path/to/cert.hocr", HOCR},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "PNG magic bytes",
			data: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
			want: PNG,
		},
		{
			name: "JPEG magic bytes",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			want: JPEG,
		},
		{
			name: "TIFF little-endian",
			data: []byte{'I', 'I', 0x2A, 0x00, 0x08, 0x00},
			want: TIFF,
		},
		{
			name: "TIFF big-endian",
			data: []byte{'M', 'M', 0x00, 0x2A, 0x00, 0x08},
			want: TIFF,
		},
		{
			name: "PDF magic bytes",
			data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3"),
			want: PDF,
		},
		{
			name: "hOCR with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HOCR,
		},
		{
			name: "hOCR with html tag",
			data: []byte("<html><head>"),
			want: HOCR,
		},
		{
			name: "hOCR with whitespace before DOCTYPE",
			data: []byte("  \n  <!DOCTYPE HTML PUBLIC"),
			want: HOCR,
		},
		{
			name: "XHTML hOCR",
			data: []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<html xmlns=\"http://www.w3.org/1999/xhtml\">"),
			want: HOCR,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "short data",
			data: []byte{0x89, 'P'},
			want: Unknown,
		},
		{
			name: "random data",
			data: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			want: Unknown,
		},
		{
			name: "text file",
			data: []byte("Hello, World!"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}
