package asset

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/mplus"
)

// Magic identifies an asset blob.
const Magic = "MPBF"

// Version is the format version written by Encode.
const Version uint16 = 1

// Decode errors.
var (
	// ErrBadMagic indicates the data is not an asset blob.
	ErrBadMagic = errors.New("asset: bad magic")

	// ErrUnsupportedVersion indicates a blob written by a newer encoder.
	ErrUnsupportedVersion = errors.New("asset: unsupported version")

	// ErrTruncated indicates the blob ends before its declared contents.
	ErrTruncated = errors.New("asset: truncated data")

	// ErrCorrupt indicates a blob whose contents are inconsistent.
	ErrCorrupt = errors.New("asset: corrupt data")
)

// Load reads and decodes an asset file.
func Load(path string) (*mplus.BitmapFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: load: %w", err)
	}
	font, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("asset: load %s: %w", path, err)
	}
	mplus.Logger().Debug("asset: loaded bitmap font",
		"path", path,
		"bytes", len(data),
		"entries", font.Charmap.Len(),
	)
	return font, nil
}

// Save encodes font into a file, replacing any existing one.
func Save(path string, font *mplus.BitmapFont) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asset: save: %w", err)
	}
	if err := Encode(f, font); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("asset: save: %w", err)
	}
	return nil
}
