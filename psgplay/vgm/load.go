package vgm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// gzip member magic, the first two bytes of a .vgz file
var gzipMagic = []byte{0x1F, 0x8B}

// File is a loaded VGM image and its parsed header.
type File struct {
	Path   string
	Data   []byte
	Header *Header
}

// Load reads a .vgm or .vgz file from fs. Compressed images are recognised by
// their gzip magic rather than the file extension.
func Load(fs afero.Fs, path string) (*File, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes an in-memory VGM or VGZ image.
func Parse(raw []byte) (*File, error) {
	data, err := Inflate(raw)
	if err != nil {
		return nil, err
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return &File{Data: data, Header: h}, nil
}

// Inflate returns raw unchanged unless it is gzip-compressed.
func Inflate(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, gzipMagic) {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("vgz: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("vgz: %w", err)
	}
	return data, nil
}

// Commands returns the command stream starting at the header's data offset.
func (f *File) Commands() []byte {
	return f.Data[f.Header.DataOffset:]
}
