package repository

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how output files are encoded.
type Compression string

const (
	NoCompression   Compression = "none"
	ZstdCompression Compression = "zstd"
)

// ZstdExtension marks zstd-compressed files.
const ZstdExtension = ".zst"

// ParseCompression maps a configured name onto a Compression.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", NoCompression:
		return NoCompression, nil
	case ZstdCompression:
		return ZstdCompression, nil
	default:
		return "", fmt.Errorf("repository: unknown compression %q", s)
	}
}

// Extension is the suffix appended to file names written with c.
func (c Compression) Extension() string {
	if c == ZstdCompression {
		return ZstdExtension
	}
	return ""
}

type zstdReadCloser struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.file.Close()
}

// openFile opens path for reading, decompressing it when it ends in .zst.
func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open file: %w", err)
	}
	if !strings.HasSuffix(path, ZstdExtension) {
		return file, nil
	}

	dec, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("repository: failed to create decoder: %w", err)
	}
	return &zstdReadCloser{dec: dec, file: file}, nil
}

type zstdWriteCloser struct {
	enc  *zstd.Encoder
	file *os.File
}

func (z *zstdWriteCloser) Write(p []byte) (int, error) { return z.enc.Write(p) }

func (z *zstdWriteCloser) Close() error {
	if err := z.enc.Close(); err != nil {
		z.file.Close()
		return fmt.Errorf("repository: failed to finish compression: %w", err)
	}
	return z.file.Close()
}

// createFile creates path for writing, compressing through zstd if asked.
func createFile(path string, c Compression) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to create file: %w", err)
	}
	if c != ZstdCompression {
		return file, nil
	}

	enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("repository: failed to create encoder: %w", err)
	}
	return &zstdWriteCloser{enc: enc, file: file}, nil
}
