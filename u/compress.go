package u

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/kjk/booklib/atomicfile"
	"github.com/klauspost/compress/zstd"
)

// implement io.ReadCloser over os.File wrapped with io.Reader.
// io.Closer goes to os.File, io.Reader goes to wrapping reader
type readerWrappedFile struct {
	f *os.File
	r io.Reader
}

func (rc *readerWrappedFile) Close() error {
	return rc.f.Close()
}

func (rc *readerWrappedFile) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

func wrapInReadeCloser(f *os.File, r io.Reader, err error) (io.ReadCloser, error) {
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readerWrappedFile{
		f: f,
		r: r,
	}, nil
}

// OpenFileMaybeCompressed opens a file that might be compressed with gzip
// or bzip2 or zstd or brotli, based on file extension
func OpenFileMaybeCompressed(path string) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".gz":
		r, err := gzip.NewReader(f)
		return wrapInReadeCloser(f, r, err)
	case ".bz2":
		r := bzip2.NewReader(f)
		return wrapInReadeCloser(f, r, nil)
	case ".zst", ".zstd":
		r, err := zstd.NewReader(f)
		return wrapInReadeCloser(f, r, err)
	case ".br":
		r := brotli.NewReader(f)
		return wrapInReadeCloser(f, r, nil)
	}
	return f, nil
}

// ReadFileMaybeCompressed reads a file, decompressing it if
// the extension says it's compressed
func ReadFileMaybeCompressed(path string) ([]byte, error) {
	r, err := OpenFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// CompressDataForPath compresses d with compression picked by
// extension of path (.gz, .zst, .br). Other extensions return d as is.
func CompressDataForPath(path string, d []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz":
		return GzipData(d)
	case ".zst", ".zstd":
		return ZstdCompressData(d)
	case ".br":
		return BrCompressDataBest(d)
	}
	return d, nil
}

// WriteFileMaybeCompressed atomically writes d to path,
// compressed based on path extension
func WriteFileMaybeCompressed(path string, d []byte) error {
	d, err := CompressDataForPath(path, d)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, d)
}

func getErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func GzipData(d []byte) ([]byte, error) {
	var dst bytes.Buffer
	w, err := gzip.NewWriterLevel(&dst, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(d)
	err2 := w.Close()
	if err = getErr(err, err2); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

func BrCompressData(d []byte, level int) ([]byte, error) {
	var dst bytes.Buffer
	w := brotli.NewWriterLevel(&dst, level)
	_, err := w.Write(d)
	err2 := w.Close()
	if err = getErr(err, err2); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

func BrCompressDataBest(d []byte) ([]byte, error) {
	return BrCompressData(d, brotli.BestCompression)
}

func BrDecompressData(d []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(d))
	return io.ReadAll(r)
}

func zstdNewWriter(dst io.Writer) (*zstd.Encoder, error) {
	// zstd.SpeedBestCompression is much slower and not much better
	return zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

func ZstdCompressData(d []byte) ([]byte, error) {
	var dst bytes.Buffer
	w, err := zstdNewWriter(&dst)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(d)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}
