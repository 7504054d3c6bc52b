package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cocsheet/internal/ctxutil"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
)

func TestLogService_ListSheetLog(t *testing.T) {
	svc := newServices(t)
	ctx := ctxutil.WithActorID(context.Background(), owner)
	s := createSheet(t, svc, detective())

	_, err := svc.sheets.UpdateSheet(ctx, owner, s.ID, primary.SheetPatch{Name: strPtr("Harvey W. Walters")})
	require.NoError(t, err)

	entries, err := svc.logs.ListSheetLog(ctx, owner, s.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "update", entries[1].Action)
	assert.Equal(t, "name", entries[1].FieldName)
	assert.Equal(t, "Harvey Walters", entries[1].OldValue)
	assert.Equal(t, "Harvey W. Walters", entries[1].NewValue)
	assert.Equal(t, owner, entries[1].ActorID)
}

func TestLogService_OwnerOnly(t *testing.T) {
	svc := newServices(t)
	s := createSheet(t, svc, detective())

	_, err := svc.logs.ListSheetLog(context.Background(), stranger, s.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound, "private sheets stay hidden")

	_, err = svc.logs.ListSheetLog(context.Background(), owner, 9999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
