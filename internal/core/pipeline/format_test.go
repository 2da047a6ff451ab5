package pipeline

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		fileName  string
		want      Format
	}{
		{"pdf media type", "application/pdf", "notes.bin", FormatPDF},
		{"pdf extension only", "", "lecture.PDF", FormatPDF},
		{"docx media type", docxMediaType, "paper", FormatDocx},
		{"docx extension only", "application/octet-stream", "paper.docx", FormatDocx},
		{"jpeg media type", "image/jpeg", "scan", FormatImage},
		{"png media type", "image/png", "scan", FormatImage},
		{"jpg extension", "", "scan.JPG", FormatImage},
		{"jpeg extension", "", "scan.jpeg", FormatImage},
		{"text media prefix", "text/plain", "whatever.xyz", FormatText},
		{"text with params", "text/plain; charset=utf-8", "whatever.xyz", FormatText},
		{"csv media prefix", "text/csv", "data", FormatText},
		{"md extension", "", "README.md", FormatText},
		{"json extension", "", "config.json", FormatText},
		{"log extension", "", "server.log", FormatText},
		{"unknown binary", "application/zip", "archive.zip", FormatUnsupported},
		{"no hints at all", "", "mystery", FormatUnsupported},
		{"exe extension", "application/octet-stream", "tool.exe", FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.mediaType, tt.fileName); got != tt.want {
				t.Errorf("Detect(%q, %q) = %q, want %q", tt.mediaType, tt.fileName, got, tt.want)
			}
		})
	}
}
