// Package asset stores compiled bitmap fonts as compact binary blobs.
//
// A blob starts with the four bytes "MPBF" and a format version, followed
// by the font parameters, the vertical metrics and the decoration lines.
// Glyph images are deduplicated into an image table whose pixels live in a
// single heap; character map entries and trie nodes reference them by
// index. All fixed-size integers and floats are little-endian; counts,
// lengths and indices are varints.
//
//	var buf bytes.Buffer
//	if err := asset.Encode(&buf, font); err != nil {
//		return err
//	}
//	font, err = asset.Decode(buf.Bytes())
package asset
