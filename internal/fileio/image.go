package fileio

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"net/http"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder registration

	"tagmatch/internal/model"
)

// ImageService prepares cover art for embedding: resizing to sane dimensions
// and converting to JPEG for player compatibility.
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum
// dimensions, preserving the aspect ratio. Images already within bounds are
// re-encoded as JPEG. The Catmull-Rom algorithm is used for scaling quality.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
// Useful before embedding: consistent format, smaller than PNG, and better
// compatibility with older players.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrepareCover readies a cover for embedding: loads its bytes when only a
// path is set, fills in the MIME type, resizes to fit maxSize when positive
// (which re-encodes as JPEG), and otherwise converts to JPEG when convertJPEG
// is set. A nil cover is a no-op.
func (s *ImageService) PrepareCover(ctx context.Context, cover *model.Cover, maxSize int, convertJPEG bool) error {
	if cover == nil {
		return nil
	}
	if cover.Data == nil && cover.Path != "" {
		data, err := os.ReadFile(cover.Path)
		if err != nil {
			return err
		}
		cover.Data = data
	}
	if cover.Data == nil {
		return nil
	}
	if cover.MIME == "" {
		cover.MIME = http.DetectContentType(cover.Data)
	}
	if maxSize > 0 {
		resized, err := s.ResizeImage(ctx, cover.Data, maxSize, maxSize)
		if err != nil {
			return err
		}
		cover.Data = resized
		cover.MIME = "image/jpeg"
		return nil
	}
	if convertJPEG {
		converted, err := s.ConvertToJPEG(ctx, cover.Data)
		if err != nil {
			return err
		}
		cover.Data = converted
		cover.MIME = "image/jpeg"
	}
	return nil
}
