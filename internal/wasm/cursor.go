package wasm

import (
	"encoding/binary"
	"math"
)

// cursor is the stateful byte reader the decoder consumes. It tracks the
// read position and offers the small set of primitive reads every section
// decoder builds on. Errors are not tagged with the position.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrUnexpectedEOF
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) peekByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrUnexpectedEOF
	}
	return c.buf[c.pos], nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// readU32LE reads a fixed 4-byte little-endian unsigned integer (used only
// for the wasm version field).
func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readVarUint32() (uint32, error) { return readVarUint32(c) }
func (c *cursor) readVarUint64() (uint64, error) { return readVarUint64(c) }
func (c *cursor) readVarInt32() (int32, error)   { return readVarInt32(c) }
func (c *cursor) readVarInt64() (int64, error)   { return readVarInt64(c) }

func (c *cursor) readF32() (float32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) readF64() (float64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readName reads a length-prefixed UTF-8 name.
func (c *cursor) readName() (string, error) {
	n, err := c.readVarUint32()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// atEnd reports whether the cursor has consumed the whole buffer.
func (c *cursor) atEnd() bool {
	return c.pos >= len(c.buf)
}

// remaining returns every byte not yet consumed.
func (c *cursor) remaining() []byte {
	return c.buf[c.pos:]
}

// subCursor carves out a fixed-size region as its own cursor, the way the
// decoder treats a section's declared payload as a self-contained region.
func (c *cursor) subCursor(size int) (*cursor, error) {
	b, err := c.readBytes(size)
	if err != nil {
		return nil, err
	}
	return newCursor(b), nil
}

