// Package storage keeps copies of logo and screenshot images so directory
// records do not depend on third-party hotlinks.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned for payloads that are neither SVG nor a
// decodable raster image.
var ErrNotImage = errors.New("storage: payload is not a supported image")

// Local stores objects under a directory served at PublicBaseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the root directory if needed.
func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Store validates data as an image, writes it at key (with the extension
// replaced by the detected format) and returns its public URL.
func (l *Local) Store(ctx context.Context, data []byte, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, err := DetectExt(data)
	if err != nil {
		return "", err
	}
	// Cleaning against "/" keeps keys inside the root.
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	key = strings.TrimSuffix(key, path.Ext(key)) + ext

	dst := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: rename: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

// DetectExt returns the file extension for an SVG or a raster image
// (png, jpeg, gif, webp).
func DetectExt(data []byte) (string, error) {
	if isSVG(data) {
		return ".svg", nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	switch format {
	case "jpeg":
		return ".jpg", nil
	case "png", "gif", "webp":
		return "." + format, nil
	}
	return "", ErrNotImage
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// Key builds an object key "{prefix}/{label}-{hash}{ext}" where hash is the
// first 8 hex digits of sha256(assetURL).
func Key(prefix, label, assetURL, ext string) string {
	sum := sha256.Sum256([]byte(assetURL))
	if label == "" {
		label = "asset"
	}
	return prefix + "/" + label + "-" + hex.EncodeToString(sum[:])[:8] + ext
}
