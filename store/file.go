package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/commercekit/core"
)

// FileStore 是本地文件实现的 ArtifactStore，每个产物一个 JSON 文件。
// 单机部署的默认选择：训练产物落盘，进程重启后直接加载。
type FileStore struct {
	dir string
}

var _ core.ArtifactStore = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Save 先写临时文件再 rename，避免写一半的产物被并发加载。
func (f *FileStore) Save(ctx context.Context, name string, blob []byte) error {
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(name))
}

func (f *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	blob, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, core.ErrArtifactNotFound
	}
	return blob, err
}

func (f *FileStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(f.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FileStore) Close() error { return nil }
