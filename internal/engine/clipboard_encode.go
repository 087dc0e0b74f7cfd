package engine

import (
	"bytes"
	"image"
	"image/png"
)

// encodeOriginal encodes img for clipboard export. PNG via the standard
// library is used because nothing in the retrieved dependency set offers an
// encoder of its own; the engine's only concern here is a lossless,
// universally pasteable format, which image/png already is.
func encodeOriginal(img image.Image) (blob []byte, mime string, err error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/png", nil
}
