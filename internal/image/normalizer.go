package image

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/kechcole/Blog-App/internal/common/constants"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/observability/metrics"
)

// Normalized is the result of a Normalize call. Data holds the bytes to
// persist; Format is the decoded format name ("jpeg", "png", ...), which the
// media store uses to pick a file extension.
type Normalized struct {
	Data    []byte
	Format  string
	Resized bool
}

type Normalizer struct {
	maxDimension int
}

func NewNormalizer() *Normalizer {
	return &Normalizer{maxDimension: constants.ProfileImageMaxDimension}
}

var encodeFormats = map[string]imaging.Format{
	"jpeg": imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
	"bmp":  imaging.BMP,
	"tiff": imaging.TIFF,
}

// Normalize bounds an uploaded image to the configured box. Images already
// inside the box come back byte-identical; larger ones are shrunk to fit with
// the aspect ratio preserved. Never upscales.
func (n *Normalizer) Normalize(data []byte) (Normalized, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Normalized{}, commonerrors.ErrUnreadableImage.WithCause(err)
	}

	if cfg.Width <= n.maxDimension && cfg.Height <= n.maxDimension {
		metrics.ProfileImagesPassedThrough.Inc()
		return Normalized{Data: data, Format: format}, nil
	}

	encodeFormat, ok := encodeFormats[format]
	if !ok {
		return Normalized{}, commonerrors.ErrUnreadableImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Normalized{}, commonerrors.ErrUnreadableImage.WithCause(err)
	}

	resized := imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, encodeFormat); err != nil {
		return Normalized{}, commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.ProfileImagesNormalized.Inc()
	return Normalized{Data: buf.Bytes(), Format: format, Resized: true}, nil
}
