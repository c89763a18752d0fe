package lot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exp-usinagem-api/internal/domain/entity"
	"github.com/jhoicas/exp-usinagem-api/internal/domain/lot"
)

func TestBaseOf(t *testing.T) {
	cases := []struct {
		name, code, external, want string
	}{
		{"sufixo de inspeção", "10112024-0930-4512-INS-03", "", "10112024-0930-4512"},
		{"sufixo de embalagem ignora externo", "L77-EMB-12", "OUTRO", "L77"},
		{"sem sufixo usa lote externo", "L77", "EXT-1", "EXT-1"},
		{"sem sufixo nem externo", "L77", "", "L77"},
		{"tag desconhecida não é sufixo", "L77-XYZ-01", "", "L77-XYZ-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lot.BaseOf(tc.code, tc.external))
		})
	}
}

func TestSequenceMap_NextIsIncreasingAndPadded(t *testing.T) {
	movs := []*entity.LotMovement{
		{LotCode: "L1-EMB-01", LotBatchID: "L1"},
		{LotCode: "L1-EMB-04"},
		{LotCode: "L1-INS-02"},
		{LotCode: "L2"},
	}
	seq := lot.BuildSequenceMap(movs)

	first, ok := seq.Next("L1", lot.TagPackaging)
	require.True(t, ok)
	second, ok := seq.Next("L1", lot.TagPackaging)
	require.True(t, ok)
	assert.Equal(t, "L1-EMB-05", first)
	assert.Equal(t, "L1-EMB-06", second)

	ins, _ := seq.Next("L1", lot.TagInspection)
	assert.Equal(t, "L1-INS-03", ins)

	fresh, _ := seq.Next("L2", lot.TagInspection)
	assert.Equal(t, "L2-INS-01", fresh)
}

func TestSequenceMap_NextWithoutBaseOrTag(t *testing.T) {
	seq := lot.SequenceMap{}
	_, ok := seq.Next("", lot.TagPackaging)
	assert.False(t, ok)
	_, ok = seq.Next("L1", "")
	assert.False(t, ok)
	assert.Empty(t, seq, "falha não deve registrar sequência")
}

func TestBuildSequenceMap_IsRebuiltFromPersistedState(t *testing.T) {
	movs := []*entity.LotMovement{{LotCode: "L9-INS-07", LotBatchID: "L9"}}
	a := lot.BuildSequenceMap(movs)
	_, _ = a.Next("L9", lot.TagInspection)

	b := lot.BuildSequenceMap(movs)
	code, _ := b.Next("L9", lot.TagInspection)
	assert.Equal(t, "L9-INS-08", code, "mapa novo não herda o incremento em memória do anterior")
}

func TestNewEntryLotCode(t *testing.T) {
	now := time.Date(2024, 11, 5, 7, 3, 0, 0, time.UTC)
	assert.Equal(t, "05112024-0703-4512/10", lot.NewEntryLotCode(now, " 4512/10 "))
}

func TestTagForStage(t *testing.T) {
	assert.Equal(t, lot.TagInspection, lot.TagForStage(entity.StageParaInspecao))
	assert.Equal(t, lot.TagPackaging, lot.TagForStage(entity.StageParaEmbarque))
	assert.Equal(t, "", lot.TagForStage(entity.StageParaUsinar))
}

func TestBatchOf_FallsBackToParser(t *testing.T) {
	assert.Equal(t, "L5", lot.BatchOf(&entity.LotMovement{LotCode: "L5-INS-01"}))
	assert.Equal(t, "B1", lot.BatchOf(&entity.LotMovement{LotCode: "L5-INS-01", LotBatchID: "B1"}))
	assert.Equal(t, lot.NoLot, lot.BatchOf(&entity.LotMovement{}))
}
