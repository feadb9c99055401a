package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/scripttaste/internal/model"
)

// ImageFormats lists the extensions SaveImage accepts.
var ImageFormats = []string{"png", "jpg", "jpeg", "gif", "tif", "tiff", "bmp"}

// SaveImage writes the canvas to path, choosing the encoder from the file
// extension. Parent directories are created.
func SaveImage(path string, canvas *model.Canvas) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported image format %q (use one of %s)",
			filepath.Ext(path), strings.Join(ImageFormats, ", "))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(canvas.Pixels, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// EncodePNG writes the canvas to w as PNG.
func EncodePNG(w io.Writer, canvas *model.Canvas) error {
	return imaging.Encode(w, canvas.Pixels, imaging.PNG)
}
