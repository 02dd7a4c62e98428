package assets

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the upload ceiling (5 MiB).
const MaxImageSize = 5 << 20

// allowedTypes maps accepted declared MIME types to the canonical type the
// sniffed content must match.
var allowedTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
	"image/webp": "image/webp",
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Validate checks an upload against the image allow-list. The declared type,
// the file extension and the sniffed content must all be allowed images,
// and the size must be within MaxImageSize.
func Validate(data []byte, declaredType, fileName string) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: image is empty", common.ErrValidation)
	}
	if len(data) > MaxImageSize {
		return fmt.Errorf("%w: image exceeds %d bytes", common.ErrValidation, MaxImageSize)
	}

	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		return fmt.Errorf("%w: invalid content type %q", common.ErrValidation, declaredType)
	}
	if _, ok := allowedTypes[strings.ToLower(mediaType)]; !ok {
		return fmt.Errorf("%w: only jpeg, png and webp images are allowed", common.ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: file extension %q is not allowed", common.ErrValidation, ext)
	}

	detected := mimetype.Detect(data)
	for _, canonical := range allowedExtensions {
		if detected.Is(canonical) {
			return nil
		}
	}
	return fmt.Errorf("%w: content is %s, not an allowed image", common.ErrValidation, detected.String())
}
