package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// ImageServiceImpl implements the ImageService interface. Images are
// opaque handles; no binary content is stored.
type ImageServiceImpl struct {
	tx     secondary.Transactor
	sheets secondary.SheetRepository
	images secondary.ImageRepository
	logger *zap.Logger
}

// NewImageService creates a new ImageService with injected dependencies.
func NewImageService(
	tx secondary.Transactor,
	sheets secondary.SheetRepository,
	images secondary.ImageRepository,
	logger *zap.Logger,
) *ImageServiceImpl {
	return &ImageServiceImpl{
		tx:     tx,
		sheets: sheets,
		images: images,
		logger: nopIfNil(logger).Named("image"),
	}
}

// AddImage registers an image handle. A main image demotes the current one.
func (s *ImageServiceImpl) AddImage(ctx context.Context, ownerID string, sheetID int64, req primary.AddImageRequest) (*primary.Image, error) {
	handle := req.Handle
	if handle == "" {
		handle = uuid.NewString()
	} else {
		parsed, err := uuid.Parse(handle)
		if err != nil {
			return nil, errs.Validation("handle", "image handle %q is not a UUID", handle)
		}
		handle = parsed.String()
	}
	if req.Order < 0 {
		return nil, errs.Validation("order", "image order cannot be negative")
	}

	record := &secondary.ImageRecord{
		SheetID: sheetID,
		Handle:  handle,
		IsMain:  req.IsMain,
		Order:   req.Order,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
			return err
		}
		if record.IsMain {
			if err := s.images.ClearMain(ctx, sheetID); err != nil {
				return err
			}
		}
		return s.images.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("image added",
		zap.Int64("sheet_id", sheetID),
		zap.String("handle", handle),
		zap.Bool("is_main", record.IsMain))
	return imageToPrimary(record), nil
}

// ListImages lists a visible sheet's images, main first.
func (s *ImageServiceImpl) ListImages(ctx context.Context, viewerID string, sheetID int64) ([]*primary.Image, error) {
	if _, err := loadVisible(ctx, s.sheets, viewerID, sheetID); err != nil {
		return nil, err
	}
	records, err := s.images.ListBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Image, len(records))
	for i, r := range records {
		out[i] = imageToPrimary(r)
	}
	return out, nil
}

// SetMainImage makes one image the main image, demoting the previous one.
func (s *ImageServiceImpl) SetMainImage(ctx context.Context, ownerID string, sheetID, imageID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedImage(ctx, ownerID, sheetID, imageID); err != nil {
			return err
		}
		if err := s.images.ClearMain(ctx, sheetID); err != nil {
			return err
		}
		return s.images.SetMain(ctx, imageID)
	})
}

// DeleteImage removes an image.
func (s *ImageServiceImpl) DeleteImage(ctx context.Context, ownerID string, sheetID, imageID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedImage(ctx, ownerID, sheetID, imageID); err != nil {
			return err
		}
		return s.images.Delete(ctx, imageID)
	})
}

func (s *ImageServiceImpl) ownedImage(ctx context.Context, ownerID string, sheetID, imageID int64) (*secondary.ImageRecord, error) {
	if _, err := loadEditable(ctx, s.sheets, ownerID, sheetID); err != nil {
		return nil, err
	}
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.SheetID != sheetID {
		return nil, errs.NotFound("image %d not found on sheet %d", imageID, sheetID)
	}
	return img, nil
}

func imageToPrimary(r *secondary.ImageRecord) *primary.Image {
	return &primary.Image{
		ID:      r.ID,
		SheetID: r.SheetID,
		Handle:  r.Handle,
		IsMain:  r.IsMain,
		Order:   r.Order,
	}
}

var _ primary.ImageService = (*ImageServiceImpl)(nil)
