package snapshot

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/datatrails/go-datatrails-common/azblob"
)

// ObjectWriter is the storage a generation is published to. Paths are
// always forward slash separated.
type ObjectWriter interface {
	// Put stores data at path. When failIfExists is set and an object is
	// already present at path, Put returns an error wrapping ErrExists.
	Put(ctx context.Context, path string, data []byte, failIfExists bool) error
}

type ObjectReader interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// DirStore publishes generations below a local directory.
type DirStore struct {
	Root string

	// writeTo copies object data to its file. nil selects a plain write.
	writeTo func(w io.Writer, data []byte) error
}

func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

func (s *DirStore) write(w io.Writer, data []byte) error {
	if s.writeTo != nil {
		return s.writeTo(w, data)
	}
	_, err := w.Write(data)
	return err
}

func (s *DirStore) fullPath(path string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path))
}

func (s *DirStore) Put(ctx context.Context, path string, data []byte, failIfExists bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := s.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	if failIfExists {
		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		if err != nil {
			return err
		}
		if err = s.write(f, data); err != nil {
			f.Close()
			os.Remove(full)
			return err
		}
		if err = f.Close(); err != nil {
			os.Remove(full)
			return err
		}
		return nil
	}

	// write then rename so readers never observe a partial object
	tmp, err := os.CreateTemp(filepath.Dir(full), ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err = s.write(tmp, data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), full)
}

func (s *DirStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.fullPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// blobPutter is satisfied by *azblob.Storer
type blobPutter interface {
	Put(ctx context.Context, identity string, source io.ReadSeekCloser, opts ...azblob.Option) (*azblob.WriteResponse, error)
}

// BlobStore publishes generations to an azure blob container.
type BlobStore struct {
	store blobPutter
	tags  map[string]string
}

func NewBlobStore(store blobPutter, tags map[string]string) *BlobStore {
	return &BlobStore{store: store, tags: tags}
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte, failIfExists bool) error {
	var opts []azblob.Option
	if len(s.tags) > 0 {
		opts = append(opts, azblob.WithTags(s.tags))
	}
	if failIfExists {
		// the put fails with a precondition error if the blob exists
		opts = append(opts, azblob.WithEtagNoneMatch("*"))
	}
	_, err := s.store.Put(ctx, path, azblob.NewBytesReaderCloser(data), opts...)
	if failIfExists {
		return wrapBlobExists(err)
	}
	return err
}
