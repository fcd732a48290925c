package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/commercekit/core"
)

func TestStores_SaveLoadDelete(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) core.ArtifactStore
	}{
		{
			name: "memory",
			build: func(t *testing.T) core.ArtifactStore {
				return NewMemoryStore()
			},
		},
		{
			name: "file",
			build: func(t *testing.T) core.ArtifactStore {
				s, err := NewFileStore(t.TempDir())
				require.NoError(t, err)
				return s
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.build(t)
			defer s.Close()

			// 不存在的产物
			_, err := s.Load(ctx, "missing")
			assert.True(t, core.IsArtifactNotFound(err))

			// 保存并读回
			require.NoError(t, s.Save(ctx, "model", []byte(`{"v":1}`)))
			blob, err := s.Load(ctx, "model")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"v":1}`), blob)

			// 覆盖写
			require.NoError(t, s.Save(ctx, "model", []byte(`{"v":2}`)))
			blob, err = s.Load(ctx, "model")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"v":2}`), blob)

			// 删除后再读回 NOT_FOUND；删除不存在的产物不报错
			require.NoError(t, s.Delete(ctx, "model"))
			_, err = s.Load(ctx, "model")
			assert.True(t, core.IsArtifactNotFound(err))
			assert.NoError(t, s.Delete(ctx, "model"))
		})
	}
}

func TestFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "m", []byte("x")))
	blob, err := s.Load(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), blob)
}

func TestMemoryStore_CopiesBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	blob := []byte("abc")
	require.NoError(t, s.Save(ctx, "m", blob))
	blob[0] = 'x' // 调用方改动入参不能影响已存产物

	got, err := s.Load(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
