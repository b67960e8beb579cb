package wasm

import "errors"

// ErrLEB128Overflow is returned when an LEB128 encoding runs past the
// maximum byte count for the target width (5 bytes for 32-bit, 10 for
// 64-bit). Unused high bits in the final byte are not checked.
var ErrLEB128Overflow = errors.New("wasm: leb128 overflow")

// byteReader is the minimal surface the LEB128 decoders need from a Cursor.
type byteReader interface {
	readByte() (byte, error)
}

// readVarUint32 reads an unsigned LEB128-encoded uint32.
func readVarUint32(r byteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrLEB128Overflow
		}
	}
}

// readVarUint64 reads an unsigned LEB128-encoded uint64.
func readVarUint64(r byteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, ErrLEB128Overflow
		}
	}
}

// readVarInt32 reads a signed LEB128-encoded int32.
func readVarInt32(r byteReader) (int32, error) {
	var result int32
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 35 {
			return 0, ErrLEB128Overflow
		}
	}
	if shift < 32 && b&0x40 != 0 {
		result |= ^int32(0) << shift
	}
	return result, nil
}

// readVarInt64 reads a signed LEB128-encoded int64.
func readVarInt64(r byteReader) (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 70 {
			return 0, ErrLEB128Overflow
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= ^int64(0) << shift
	}
	return result, nil
}
