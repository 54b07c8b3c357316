// Package bitmap provides the packed gray-level coverage images stored in a
// compiled font.
//
// # Packing
//
// An [Image] stores its pixels row-major at one of four bit depths: 1, 2, 4
// or 8 bits per pixel. Pixels are packed most-significant-bit first within a
// byte. Rows never share a byte: a row whose bit length is not a multiple of
// eight ends in a partial byte whose low bits are zero.
//
// # Sub-pixel positions
//
// An [ImageSet] holds either one image reused at every horizontal sub-pixel
// offset, or one image per offset. [ImageSet.At] hides the difference.
//
// # Quantization
//
// [Quantize] converts 8-bit coverage produced by a rasterizer into packed
// levels using shift-23 fixed-point rounding, so that results are identical on
// every platform.
package bitmap
