package doclayout

import "context"

// ImageData is a decoded image returned by an ImageLoader.
type ImageData struct {
	Bytes  []byte
	Format string // png, jpeg, gif, webp, bmp, tiff
	Width  int
	Height int
}

// ImageLoader is the image-fetching collaborator. The image renderer treats
// it as opaque: given a source descriptor (file path, data: URI, or URL) it
// returns decoded bytes or fails. Package imageload ships the default
// implementation.
type ImageLoader interface {
	Load(ctx context.Context, src string) (ImageData, error)
}
