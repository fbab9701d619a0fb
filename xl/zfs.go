package xl

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Storage receives the parts of a package (XML and media files).
// Implementations can write to ZIP archives, directories or memory.
type Storage interface {
	WriteBlob(path string, blob []byte) error
}

// DirStorage writes package parts to a directory tree on disk.
// Useful for inspecting the generated XML.
type DirStorage struct {
	Dir string
}

func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

// WriteBlob writes a part, creating parent directories as needed.
func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	fn := filepath.Join(ds.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fn), 0o777); err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0o666)
}

// ZipStorage writes package parts into a ZIP archive, producing an .xlsx
// file once closed.
type ZipStorage struct {
	z *zip.Writer
}

// NewZipStorage creates an archive writer with the default compression.
func NewZipStorage(out io.Writer) *ZipStorage {
	return NewZipStorageLevel(out, flate.DefaultCompression)
}

// NewZipStorageLevel creates an archive writer deflating at level
// (flate.HuffmanOnly..flate.BestCompression). Other values fall back to the
// default level.
func NewZipStorageLevel(out io.Writer, level int) *ZipStorage {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.DefaultCompression
	}
	z := zip.NewWriter(out)
	z.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	return &ZipStorage{z: z}
}

// WriteBlob adds one entry. Entries carry no timestamps, so equal
// workbooks produce equal archives.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	f, err := zs.z.CreateHeader(&zip.FileHeader{Name: path, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

// Close writes the central directory. The archive is invalid until Close
// succeeds.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// MemStorage keeps parts in memory, in write order.
type MemStorage struct {
	names []string
	parts map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{parts: map[string][]byte{}}
}

func (ms *MemStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	if _, ok := ms.parts[path]; !ok {
		ms.names = append(ms.names, path)
	}
	ms.parts[path] = append([]byte(nil), blob...)
	return nil
}

// Parts lists part names in the order they were first written.
func (ms *MemStorage) Parts() []string {
	return append([]string(nil), ms.names...)
}

// Blob returns a part's content, nil if it was never written.
func (ms *MemStorage) Blob(path string) []byte {
	return ms.parts[strings.TrimPrefix(path, "/")]
}

// WriteTo packs the stored parts into a ZIP archive.
func (ms *MemStorage) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	zs := NewZipStorage(cw)
	for _, name := range ms.names {
		if err := zs.WriteBlob(name, ms.parts[name]); err != nil {
			return cw.n, err
		}
	}
	return cw.n, zs.Close()
}
