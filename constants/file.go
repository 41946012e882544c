package constants

import "strings"

// File formats recognized by the extraction pipeline.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// Size ceilings enforced before any extraction work begins.
const (
	MaxPDFBytes   = 20 << 20 // 20 MB
	MaxImageBytes = 10 << 20 // 10 MB
)

// AllowedImageMIMEs is the explicit allow-list for raster uploads.
var AllowedImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/webp": {},
}

// AllowedExtensions holds the default allowed file extensions for ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"bmp":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (normalized or raw) extension to a pipeline format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	e := NormalizeExt(ext)
	if e == "pdf" {
		return PDF
	}
	if _, ok := AllowedExtensions[e]; ok {
		return IMAGE
	}
	return ""
}

// MapMIMEToFormat maps a detected MIME type to a pipeline format.
// Returns "" for unsupported types.
func MapMIMEToFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "application/pdf" {
		return PDF
	}
	if _, ok := AllowedImageMIMEs[mime]; ok {
		return IMAGE
	}
	return ""
}
