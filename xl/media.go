package xl

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// BlobHash identifies media content; equal blobs share one package part.
func BlobHash(blob []byte) uuid.UUID {
	h := fnv.New128()
	h.Write(blob)
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return uid
}

// mediaInfo is a decoded image header.
type mediaInfo struct {
	ext    string // "png", "jpeg" or "gif"
	width  int
	height int
}

// sniffImage reads the image header of blob and checks that the stream is
// not cut short.
func sniffImage(blob []byte) (mediaInfo, error) {
	if len(blob) == 0 {
		return mediaInfo{}, fmt.Errorf("empty image: %w", ErrInvalidImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		return mediaInfo{}, fmt.Errorf("%v: %w", err, ErrInvalidImage)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return mediaInfo{}, fmt.Errorf("image of %dx%d pixels: %w", cfg.Width, cfg.Height, ErrInvalidImage)
	}
	if !bytes.HasSuffix(blob, imageTrailers[format]) {
		return mediaInfo{}, fmt.Errorf("truncated %s data: %w", format, ErrInvalidImage)
	}
	return mediaInfo{ext: format, width: cfg.Width, height: cfg.Height}, nil
}

// imageTrailers end every complete stream of a format.
var imageTrailers = map[string][]byte{
	"png":  {0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}, // IEND chunk type and CRC
	"jpeg": {0xFF, 0xD9},
	"gif":  {0x3B},
}

func mediaContentType(ext string) string {
	switch ext {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	}
	return "image/png"
}

// mediaName is the package part name of a blob.
func mediaName(blob []byte, ext string) string {
	return fmt.Sprintf("image-%s.%s", BlobHash(blob), ext)
}
