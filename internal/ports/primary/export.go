package primary

import "context"

// ExportService defines the primary port for external formats.
type ExportService interface {
	// ExportCCFOLIA renders a visible sheet as a CCFOLIA character document.
	ExportCCFOLIA(ctx context.Context, viewerID string, sheetID int64) ([]byte, error)
}

// ImageService defines the primary port for character images.
type ImageService interface {
	// AddImage registers an image handle on a sheet.
	AddImage(ctx context.Context, ownerID string, sheetID int64, req AddImageRequest) (*Image, error)

	// ListImages lists a visible sheet's images, main first.
	ListImages(ctx context.Context, viewerID string, sheetID int64) ([]*Image, error)

	// SetMainImage makes one image the main image, demoting the previous one.
	SetMainImage(ctx context.Context, ownerID string, sheetID, imageID int64) error

	// DeleteImage removes an image.
	DeleteImage(ctx context.Context, ownerID string, sheetID, imageID int64) error
}

// AddImageRequest contains parameters for adding an image.
type AddImageRequest struct {
	Handle string // UUID; generated when empty
	IsMain bool
	Order  int
}

// Image represents an image handle at the port boundary.
type Image struct {
	ID      int64
	SheetID int64
	Handle  string
	IsMain  bool
	Order   int
}
