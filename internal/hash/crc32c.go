// Package hash provides the checksums of the TFRecord framing.
//
// TFRecord stores CRC32-Castagnoli checksums in masked form. Masking rotates
// the CRC and adds a constant so that checksums of data which itself embeds
// checksums stay well distributed.
package hash

import (
	"hash/crc32"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// maskDelta is the constant added by Mask.
const maskDelta = 0xa282ead8

// CRC32C computes the CRC32-Castagnoli checksum of data.
// Go's crc32 package uses hardware instructions when available.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Mask returns the masked representation of crc.
func Mask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// Unmask reverses Mask.
func Unmask(masked uint32) uint32 {
	rot := masked - maskDelta
	return (rot >> 17) | (rot << 15)
}

// MaskedCRC32C returns Mask(CRC32C(data)).
func MaskedCRC32C(data []byte) uint32 {
	return Mask(CRC32C(data))
}
