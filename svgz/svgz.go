// Package svgz writes the gzip container format for SVG files. Output is
// deterministic for identical input: the gzip header carries no timestamp
// and the compression level is fixed at the maximum.
package svgz

import (
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"
)

// Extension is the container file extension.
const Extension = ".svgz"

// ContainerPath returns the sibling output path for an input path:
// "icon.svg" becomes "icon.svgz" whatever the case of the extension, any
// other name gets Extension appended.
func ContainerPath(path string) string {
	if ext := filepath.Ext(path); strings.EqualFold(ext, ".svg") {
		return path[:len(path)-len(ext)] + Extension
	}
	return path + Extension
}

// Compress gzips r into w at the best compression level.
func Compress(w io.Writer, r io.Reader) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, r); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// CompressBytes gzips b, see Compress.
func CompressBytes(b []byte) ([]byte, error) {
	var w bytes.Buffer
	if err := Compress(&w, bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
