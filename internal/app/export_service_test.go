package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
)

func TestExportService_CCFOLIA(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	s := createSheet(t, svc, detective())
	upsert(t, svc, s.ID, primary.UpsertSkillRequest{Name: "目星", OccupationPoints: 40})

	out, err := svc.export.ExportCCFOLIA(ctx, owner, s.ID)
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, "character", gjson.Get(doc, "kind").String())
	assert.Equal(t, "Harvey Walters", gjson.Get(doc, "data.name").String())
	assert.Equal(t, int64(13), gjson.Get(doc, "data.initiative").Int())
	assert.Len(t, gjson.Get(doc, "data.status").Array(), 3)
	assert.Equal(t, int64(55), gjson.Get(doc, `data.status.#(label=="SAN").max`).Int())
	assert.Len(t, gjson.Get(doc, "data.params").Array(), 8)
	assert.Equal(t, "16", gjson.Get(doc, `data.params.#(label=="EDU").value`).String())
	assert.Contains(t, gjson.Get(doc, "data.commands").String(), "CCB<=65 【目星】")
	assert.Contains(t, gjson.Get(doc, "data.memo").String(), "detective")

	again, err := svc.export.ExportCCFOLIA(ctx, owner, s.ID)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestExportService_UsesStoredDamageBonus(t *testing.T) {
	svc := newServices(t)
	req := detective()
	req.Abilities.STR = 18
	req.Abilities.SIZ = 18
	s := createSheet(t, svc, req)

	out, err := svc.export.ExportCCFOLIA(context.Background(), owner, s.ID)
	require.NoError(t, err)
	assert.Contains(t, gjson.GetBytes(out, "data.commands").String(), "1d6+1d6 【ダメージ判定】")
}

func TestExportService_RespectsVisibility(t *testing.T) {
	svc := newServices(t)
	s := createSheet(t, svc, detective())

	_, err := svc.export.ExportCCFOLIA(context.Background(), stranger, s.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
