package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

const (
	maxImageDimension = 1024 // max width or height sent to the model
	jpegQuality       = 85
)

// EncodeImage reads an image file and returns it as a base64 data URL
// ready to embed in a model request. Images larger than maxImageDimension
// on either side are downscaled (re-encoded as JPEG) first so the payload
// stays within the hosted model's request limit.
func EncodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("not an image: %s", mime)
	}

	if shrunk, err := downscale(data); err != nil {
		return "", fmt.Errorf("downscale image: %w", err)
	} else if shrunk != nil {
		data = shrunk
		mime = "image/jpeg"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// downscale returns a resized JPEG when the image exceeds the dimension
// limit, or nil when the original can be sent as-is. Formats without a
// registered decoder (WebP, BMP, ...) are sent untouched: downscaling is
// best-effort, not a gate on the consultation.
func downscale(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}

	if o := imageOrientation(data); o != 1 {
		img = correctOrientation(img, o)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxImageDimension && height <= maxImageDimension {
		return nil, nil
	}

	scale := float64(maxImageDimension) / float64(width)
	if s := float64(maxImageDimension) / float64(height); s < scale {
		scale = s
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// imageOrientation extracts the EXIF orientation tag; 1 when absent.
func imageOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

func correctOrientation(img image.Image, orientation int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var dst *image.RGBA
	var mapTo func(x, y int) (int, int)

	switch orientation {
	case 2: // flip horizontal
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapTo = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotate 180
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapTo = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // flip vertical
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		mapTo = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transpose
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapTo = func(x, y int) (int, int) { return y, x }
	case 6: // rotate 90 clockwise
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapTo = func(x, y int) (int, int) { return h - 1 - y, x }
	case 7: // transverse
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapTo = func(x, y int) (int, int) { return h - 1 - y, w - 1 - x }
	case 8: // rotate 90 counter-clockwise
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		mapTo = func(x, y int) (int, int) { return y, w - 1 - x }
	default:
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := mapTo(x, y)
			dst.Set(dx, dy, img.At(x, y))
		}
	}
	return dst
}
