package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration, common for thumbnails
)

// jpegQuality is used for every re-encoded cover.
const jpegQuality = 90

// CoverOptions controls PrepareCover.
type CoverOptions struct {
	// MaxSize bounds both dimensions. Zero disables resizing.
	MaxSize int

	// ToJPEG re-encodes the result as JPEG.
	ToJPEG bool
}

// ImageService turns video thumbnails into cover art for ID3 tags.
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// PrepareCover resizes and/or converts a thumbnail according to opts.
// With neither option set the input is returned as-is.
func (s *ImageService) PrepareCover(ctx context.Context, data []byte, opts CoverOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.MaxSize <= 0 && !opts.ToJPEG {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if opts.MaxSize > 0 {
		img = fit(img, opts.MaxSize, opts.MaxSize)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResizeImage scales an image to fit within maxWidth x maxHeight, keeping
// the aspect ratio, and returns it JPEG-encoded.
//
// Example:
//
//	// A 1280x720 thumbnail becomes 600x337
//	resized, err := svc.ResizeImage(ctx, thumb, 600, 600)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fit(img, maxWidth, maxHeight), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit returns img scaled down with Catmull-Rom to fit the bounds. Images
// already within the bounds are returned unchanged.
func fit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
