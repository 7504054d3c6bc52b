package app_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
)

func TestImageService_AddAndOrder(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	s := createSheet(t, svc, detective())

	generated, err := svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Order: 2})
	require.NoError(t, err)
	_, err = uuid.Parse(generated.Handle)
	assert.NoError(t, err)

	handle := uuid.NewString()
	main, err := svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Handle: handle, IsMain: true, Order: 5})
	require.NoError(t, err)
	assert.Equal(t, handle, main.Handle)

	images, err := svc.images.ListImages(ctx, owner, s.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, main.ID, images[0].ID, "main first")
}

func TestImageService_RejectsBadInput(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	s := createSheet(t, svc, detective())

	_, err := svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Handle: "portrait.png"})
	assert.Equal(t, "handle", errs.FieldOf(err))

	_, err = svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Order: -1})
	assert.Equal(t, "order", errs.FieldOf(err))

	handle := uuid.NewString()
	_, err = svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Handle: handle})
	require.NoError(t, err)
	_, err = svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{Handle: handle})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestImageService_SingleMain(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	s := createSheet(t, svc, detective())

	first, err := svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{IsMain: true})
	require.NoError(t, err)
	second, err := svc.images.AddImage(ctx, owner, s.ID, primary.AddImageRequest{IsMain: true})
	require.NoError(t, err)

	images, err := svc.images.ListImages(ctx, owner, s.ID)
	require.NoError(t, err)
	mains := 0
	for _, img := range images {
		if img.IsMain {
			mains++
			assert.Equal(t, second.ID, img.ID)
		}
	}
	assert.Equal(t, 1, mains)

	require.NoError(t, svc.images.SetMainImage(ctx, owner, s.ID, first.ID))
	images, err = svc.images.ListImages(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, images[0].ID)
	assert.False(t, images[1].IsMain)
}

func TestImageService_DeleteChecksSheet(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	s := createSheet(t, svc, detective())
	other := createSheet(t, svc, detective())
	img, err := svc.images.AddImage(ctx, owner, other.ID, primary.AddImageRequest{})
	require.NoError(t, err)

	err = svc.images.DeleteImage(ctx, owner, s.ID, img.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, svc.images.DeleteImage(ctx, owner, other.ID, img.ID))
	images, err := svc.images.ListImages(ctx, owner, other.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}
