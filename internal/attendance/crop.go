package attendance

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// cropFace cuts the padded bounding box out of an image. The padding is
// clamped to the image bounds; a box that degenerates after clamping is an
// error.
func cropFace(img image.Image, bbox []float64, pad int) (image.Image, error) {
	if len(bbox) != 4 {
		return nil, fmt.Errorf("bounding box has %d elements, want 4", len(bbox))
	}

	b := img.Bounds()
	x1 := max(b.Min.X, int(bbox[0])-pad)
	y1 := max(b.Min.Y, int(bbox[1])-pad)
	x2 := min(b.Max.X, int(bbox[2])+pad)
	y2 := min(b.Max.Y, int(bbox[3])+pad)
	if x2 <= x1 || y2 <= y1 {
		return nil, fmt.Errorf("bounding box [%v %v %v %v] is empty after clamping", bbox[0], bbox[1], bbox[2], bbox[3])
	}

	rect := image.Rect(x1, y1, x2, y2)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(out, image.Point{}, img, rect, draw.Src, nil)
	return out, nil
}

// saveFaceCrop decodes the source photo, crops the padded face region, and
// writes it as JPEG.
func saveFaceCrop(imageData []byte, bbox []float64, pad int, path string) error {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	crop, err := cropFace(img, bbox, pad)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create crop file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, crop, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode crop: %w", err)
	}
	return nil
}
