package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// ImageRepository implements secondary.ImageRepository with SQLite.
type ImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLite image repository.
func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create persists a new image handle.
func (r *ImageRepository) Create(ctx context.Context, img *secondary.ImageRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO images (sheet_id, handle, is_main, sort_order) VALUES (?, ?, ?, ?)",
		img.SheetID, img.Handle, boolToInt(img.IsMain), img.Order,
	)
	if err != nil {
		return errs.WithField(classify(err, "failed to create image"), "handle")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read image id: %w", err)
	}
	img.ID = id
	return nil
}

// GetByID retrieves an image by its ID.
func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*secondary.ImageRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, sheet_id, handle, is_main, sort_order, created_at FROM images WHERE id = ?", id)
	record, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("image %d not found", id)
	}
	if err != nil {
		return nil, classify(err, "failed to get image")
	}
	return record, nil
}

// ListBySheet retrieves a sheet's images, main first, then by order.
func (r *ImageRepository) ListBySheet(ctx context.Context, sheetID int64) ([]*secondary.ImageRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, sheet_id, handle, is_main, sort_order, created_at FROM images
		WHERE sheet_id = ? ORDER BY is_main DESC, sort_order, id`, sheetID)
	if err != nil {
		return nil, classify(err, "failed to list images")
	}
	defer rows.Close()

	var images []*secondary.ImageRecord
	for rows.Next() {
		record, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// ClearMain unsets is_main on every image of a sheet.
func (r *ImageRepository) ClearMain(ctx context.Context, sheetID int64) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE images SET is_main = 0 WHERE sheet_id = ?", sheetID)
	if err != nil {
		return classify(err, "failed to clear main image")
	}
	return nil
}

// SetMain sets is_main on one image.
func (r *ImageRepository) SetMain(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE images SET is_main = 1 WHERE id = ?", id)
	if err != nil {
		return classify(err, "failed to set main image")
	}
	return requireAffected(res, "image", id)
}

// Delete removes an image.
func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return classify(err, "failed to delete image")
	}
	return requireAffected(res, "image", id)
}

func scanImage(row scanner) (*secondary.ImageRecord, error) {
	var (
		img       secondary.ImageRecord
		isMain    int
		createdAt time.Time
	)
	if err := row.Scan(&img.ID, &img.SheetID, &img.Handle, &isMain, &img.Order, &createdAt); err != nil {
		return nil, err
	}
	img.IsMain = isMain != 0
	img.CreatedAt = createdAt.Format(time.RFC3339)
	return &img, nil
}

var _ secondary.ImageRepository = (*ImageRepository)(nil)
