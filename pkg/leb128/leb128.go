// Package leb128 encodes unsigned integers as unsigned LEB128.
package leb128

import (
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/uint128"
)

const (
	ErrEmpty        = errs.ErrorKind("leb128: empty input")
	ErrUnterminated = errs.ErrorKind("leb128: unterminated input")
)

// maxUint64Len is the encoded length of math.MaxUint64.
const maxUint64Len = 10

// AppendUint64 appends the encoding of v to dst.
func AppendUint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendUint128 appends the encoding of v to dst.
func AppendUint128(dst []byte, v uint128.Uint128) []byte {
	if v.Hi == 0 {
		return AppendUint64(dst, v.Lo)
	}
	for !v.Rsh(7).IsZero() {
		dst = append(dst, byte(v.Lo)|0x80)
		v = v.Rsh(7)
	}
	return append(dst, byte(v.Lo))
}

// Uint64 decodes the value at the front of data and returns it with the number of bytes
// read.
func Uint64(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrEmpty
	}
	var v uint64
	for i, b := range data {
		if i == maxUint64Len-1 && b > 1 {
			return 0, 0, errs.OverflowUint64
		}
		v |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			return v, i + 1, nil
		}
		if i == maxUint64Len-1 {
			return 0, 0, errs.OverflowUint64
		}
	}
	return 0, 0, ErrUnterminated
}
