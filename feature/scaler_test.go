package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/commercekit/core"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	samples := [][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
	}

	s := &StandardScaler{}
	require.NoError(t, s.Fit(samples))
	assert.Equal(t, core.SchemaVersion, s.Version)
	assert.InDelta(t, 2.0, s.Mean[0], 1e-9)
	assert.InDelta(t, 10.0, s.Mean[1], 1e-9)

	// 第一列：总体标准差 sqrt(2/3)
	out, err := s.Transform([]float64{2, 10})
	require.NoError(t, err)
	assert.InDelta(t, 0, out[0], 1e-9)
	assert.InDelta(t, 0, out[1], 1e-9) // 零方差列只平移

	out, err = s.Transform([]float64{3, 12})
	require.NoError(t, err)
	assert.InDelta(t, 1/0.816496580927726, out[0], 1e-9)
	assert.InDelta(t, 2, out[1], 1e-9) // 零方差列除数按 1 处理
}

func TestStandardScaler_Errors(t *testing.T) {
	s := &StandardScaler{}

	err := s.Fit(nil)
	assert.True(t, core.IsInsufficientData(err))

	err = s.Fit([][]float64{{1, 2}, {1}})
	assert.Error(t, err)

	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = s.Transform([]float64{1})
	assert.Error(t, err, "dimension mismatch must surface, caller decides fallback")
}

func TestStandardScaler_MarshalRoundTrip(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 5}, {3, 7}}))

	blob, err := s.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalScaler(blob)
	require.NoError(t, err)
	assert.Equal(t, s.Mean, got.Mean)
	assert.Equal(t, s.Std, got.Std)
}

func TestUnmarshalScaler_VersionMismatch(t *testing.T) {
	_, err := UnmarshalScaler([]byte(`{"schema_version":"0","mean":[1],"std":[1]}`))
	assert.Error(t, err)
}
