package secondary

import "context"

// ImageRepository defines the secondary port for character images.
type ImageRepository interface {
	// Create persists a new image and sets its ID.
	Create(ctx context.Context, image *ImageRecord) error

	// GetByID retrieves an image by its ID.
	GetByID(ctx context.Context, id int64) (*ImageRecord, error)

	// ListBySheet retrieves a sheet's images, main first, then by order.
	ListBySheet(ctx context.Context, sheetID int64) ([]*ImageRecord, error)

	// ClearMain unsets is_main on every image of a sheet.
	ClearMain(ctx context.Context, sheetID int64) error

	// SetMain sets is_main on one image.
	SetMain(ctx context.Context, id int64) error

	// Delete removes an image.
	Delete(ctx context.Context, id int64) error
}

// ImageRecord represents an image handle as stored in persistence.
type ImageRecord struct {
	ID        int64
	SheetID   int64
	Handle    string
	IsMain    bool
	Order     int
	CreatedAt string
}
