// Package imagedecoder implements the engine's Decoder collaborator over
// local files and http(s) URLs, using the standard library's registered
// image codecs. No EXIF metadata extraction is attempted; nothing in this
// viewer's scope consumes it.
package imagedecoder

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"os"
	"strings"

	"github.com/woolen-sheep/afilmory/internal/engine/enginetype"
)

// Decoder decodes local file paths and http(s) URLs into enginetype.DecodedImage.
type Decoder struct {
	client *http.Client
}

// New creates a Decoder using http.DefaultClient for remote URLs.
func New() *Decoder {
	return &Decoder{client: http.DefaultClient}
}

// decodedImage is the concrete enginetype.DecodedImage.
type decodedImage struct {
	img image.Image
	url string
}

func (d *decodedImage) Image() image.Image { return d.img }
func (d *decodedImage) Width() int         { return d.img.Bounds().Dx() }
func (d *decodedImage) Height() int        { return d.img.Bounds().Dy() }
func (d *decodedImage) URL() string        { return d.url }

// Decode fetches (or opens) url and decodes it with the standard library's
// registered image formats.
func (d *Decoder) Decode(ctx context.Context, url string) (enginetype.DecodedImage, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return d.decodeRemote(ctx, url)
	}
	return d.decodeLocal(url)
}

func (d *Decoder) decodeLocal(path string) (*decodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return &decodedImage{img: img, url: path}, nil
}

func (d *Decoder) decodeRemote(ctx context.Context, url string) (*decodedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: unexpected status %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return &decodedImage{img: img, url: url}, nil
}
