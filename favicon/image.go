package favicon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/bhk-seo/seotools/apperr"
)

const (
	// PreviewSize is the edge length of the rendered browser-tab preview.
	PreviewSize = 32
	// MaxImageSize bounds decoded upload data.
	MaxImageSize = 1 << 20
	// MaxImageDimension bounds the declared width and height of an upload.
	MaxImageDimension = 1024
)

// Image describes a decoded favicon.
type Image struct {
	Format  string `json:"format"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Preview string `json:"preview"`
}

// DecodeDataURL decodes a base64 data URL such as
// "data:image/png;base64,iVBOR..." and renders its preview.
func DecodeDataURL(dataURL string) (Image, error) {
	data, err := parseDataURL(dataURL)
	if err != nil {
		return Image{}, err
	}
	return processImage(data)
}

func parseDataURL(dataURL string) ([]byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return nil, fmt.Errorf("image data must be a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("image data must be base64 encoded")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, fmt.Errorf("image data too large (max %d bytes)", MaxImageSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

// processImage decodes data and scales it to a PreviewSize square PNG,
// returned as a data URL.
func processImage(data []byte) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return Image{}, apperr.InvalidInput("Images must be at most %dx%d pixels.", MaxImageDimension, MaxImageDimension)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, PreviewSize, PreviewSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return Image{}, fmt.Errorf("encode png: %w", err)
	}

	return Image{
		Format:  format,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Preview: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}
