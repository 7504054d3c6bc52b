package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/cocsheet/internal/ports/primary"
)

// ImageAdapter translates CLI operations to ImageService calls.
type ImageAdapter struct {
	service primary.ImageService
	actor   string
	out     io.Writer
}

// NewImageAdapter creates a new ImageAdapter acting as actor.
func NewImageAdapter(service primary.ImageService, actor string, out io.Writer) *ImageAdapter {
	return &ImageAdapter{service: service, actor: actor, out: out}
}

// Add registers an image handle.
func (a *ImageAdapter) Add(ctx context.Context, sheetID int64, req primary.AddImageRequest) error {
	img, err := a.service.AddImage(ctx, a.actor, sheetID, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Added image %d: %s\n", okMark, img.ID, img.Handle)
	return nil
}

// List prints a sheet's images, main first.
func (a *ImageAdapter) List(ctx context.Context, sheetID int64) error {
	images, err := a.service.ListImages(ctx, a.actor, sheetID)
	if err != nil {
		return err
	}

	if len(images) == 0 {
		fmt.Fprintln(a.out, "No images found")
		return nil
	}

	for _, img := range images {
		label := ""
		if img.IsMain {
			label = highlight.Sprint(" (main)")
		}
		fmt.Fprintf(a.out, "%-6d %3d  %s%s\n", img.ID, img.Order, img.Handle, label)
	}
	return nil
}

// SetMain makes imageID the sheet's main image.
func (a *ImageAdapter) SetMain(ctx context.Context, sheetID, imageID int64) error {
	if err := a.service.SetMainImage(ctx, a.actor, sheetID, imageID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Image %d is now the main image\n", okMark, imageID)
	return nil
}

// Delete removes an image.
func (a *ImageAdapter) Delete(ctx context.Context, sheetID, imageID int64) error {
	if err := a.service.DeleteImage(ctx, a.actor, sheetID, imageID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Image %d deleted\n", okMark, imageID)
	return nil
}
