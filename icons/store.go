// Package icons stores item icons. Every upload is normalized to a 98×98
// PNG and copied into each configured directory (game server, dev server,
// web inventory viewer), which is why there is no single canonical location.
package icons

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Decoders accepted for uploads.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Size is the width and height of every stored icon.
const Size = 98

const ext = ".png"

var (
	ErrUnsupportedImageFormat = errors.New("icons: unsupported image format")
	ErrInvalidName            = errors.New("icons: invalid icon name")
	ErrNotFound               = errors.New("icons: file not found")
)

// Store writes icons into, and looks them up from, a fixed list of directories.
type Store struct {
	dirs []string
}

// NewStore creates a Store over dirs. Order matters for Find: the first
// directory holding a file wins.
func NewStore(dirs []string) *Store {
	return &Store{dirs: append([]string(nil), dirs...)}
}

// Dirs returns the configured directories.
func (s *Store) Dirs() []string {
	return append([]string(nil), s.dirs...)
}

// FileName returns the icon file name for an item key.
func FileName(key string) (string, error) {
	if err := checkName(key); err != nil {
		return "", err
	}
	return key + ext, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Scan lists every .png file across the directories, keyed by file name.
// Directories that do not exist are skipped. When the same name exists in
// several directories the path from the later one is kept.
func (s *Store) Scan() (map[string]string, error) {
	found := make(map[string]string)
	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("icons: scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			found[e.Name()] = abs
		}
	}
	return found, nil
}

// Normalize decodes an uploaded image, converts it to RGBA and resizes it to
// Size×Size without keeping the aspect ratio.
func Normalize(r io.Reader) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImageFormat, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Save normalizes the upload and writes it as "<key>.png" into every
// directory, creating directories as needed and overwriting existing files.
// The PNG is encoded once so all copies are byte-identical. A failure part
// way through leaves the earlier directories updated.
func (s *Store) Save(key string, r io.Reader) (string, error) {
	name, err := FileName(key)
	if err != nil {
		return "", err
	}
	img, err := Normalize(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("icons: encode %s: %w", name, err)
	}
	for _, dir := range s.dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("icons: create %s: %w", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
			return "", fmt.Errorf("icons: write %s: %w", filepath.Join(dir, name), err)
		}
	}
	return name, nil
}

// Find returns the path of the first regular file called name.
func (s *Store) Find(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", ErrNotFound
	}
	for _, dir := range s.dirs {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", ErrNotFound
}
