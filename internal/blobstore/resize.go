package blobstore

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"

	"github.com/nfnt/resize"
)

const DefaultMaxWidth = 800

// Resizing shrinks JPEG and PNG uploads wider than MaxWidth before handing
// them to the wrapped store. Other formats, and images that fail to decode,
// are stored as received.
type Resizing struct {
	Store
	MaxWidth uint
}

func NewResizing(store Store, maxWidth uint) *Resizing {
	if maxWidth == 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Resizing{Store: store, MaxWidth: maxWidth}
}

func (r *Resizing) Upload(ctx context.Context, storagePath string, body io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	return r.Store.Upload(ctx, storagePath, bytes.NewReader(r.shrink(storagePath, raw)))
}

func (r *Resizing) shrink(storagePath string, raw []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	if uint(img.Bounds().Dx()) <= r.MaxWidth {
		return raw
	}

	resized := resize.Resize(r.MaxWidth, 0, img, resize.Lanczos3)
	var out bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&out, resized, &jpeg.Options{Quality: 80})
	case "png":
		err = png.Encode(&out, resized)
	default:
		return raw
	}
	if err != nil {
		log.Printf("[UPLOAD] resize of %s failed, storing original: %v", storagePath, err)
		return raw
	}
	return out.Bytes()
}
