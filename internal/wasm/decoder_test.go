package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// header returns a minimal valid wasm preamble (magic + version 1).
func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
}

func TestDecode_InvalidMagicHeader(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x61, 0x73, 0x00, 0x01, 0x00, 0x00, 0x00})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidMagicHeader)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	data := append([]byte{0x00, 0x61, 0x73, 0x6D}, 0x02, 0x00, 0x00, 0x00)
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestDecode_ZeroSizeSectionLeavesModuleUnchanged(t *testing.T) {
	// A custom section's payload is skipped unconditionally; a zero-size one
	// is the only section kind that can legally declare size 0, since every
	// other section's body starts with a vector count that itself needs at
	// least one byte to encode.
	data := append(header(), byte(SectionCustom), 0x00)
	m, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, m.Types)
	require.Empty(t, m.Functions)
}

func TestDecode_EmptyFunctionBody(t *testing.T) {
	// type section: one () -> () signature
	typeSec := []byte{byte(SectionType), 0x04, 0x01, functionTypeByte, 0x00, 0x00}
	// function section: one function using type 0
	funcSec := []byte{byte(SectionFunction), 0x02, 0x01, 0x00}
	// code section: one body, size 2, zero locals groups, single End
	codeSec := []byte{byte(SectionCode), 0x04, 0x01, 0x02, 0x00, OpEnd}

	data := append(header(), typeSec...)
	data = append(data, funcSec...)
	data = append(data, codeSec...)

	m, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, m.Code, 1)
	require.Empty(t, m.Code[0].Locals)
	require.Equal(t, []Instruction{{Op: OpEnd}}, m.Code[0].Instructions)
}

func TestDecodeBlockType_EmptyValueAndIndexForms(t *testing.T) {
	c := newCursor([]byte{blockTypeEmptyByte})
	bt, err := decodeBlockType(c)
	require.NoError(t, err)
	require.Equal(t, BlockType{Kind: BlockTypeEmpty}, bt)

	c = newCursor([]byte{byte(ValueTypeI32)})
	bt, err = decodeBlockType(c)
	require.NoError(t, err)
	require.Equal(t, BlockType{Kind: BlockTypeValue, Value: ValueTypeI32}, bt)

	// Neither 0x40 nor a value-type byte: re-read from the same position as
	// a signed LEB128 type index.
	c = newCursor([]byte{0x05})
	bt, err = decodeBlockType(c)
	require.NoError(t, err)
	require.Equal(t, BlockType{Kind: BlockTypeIndex, Index: 5}, bt)
}

func TestDecodeBlockType_NegativeIndexIsInvalid(t *testing.T) {
	c := newCursor([]byte{0x41}) // not a value type; decodes to -63 as a signed LEB128
	_, err := decodeBlockType(c)
	require.ErrorIs(t, err, ErrInvalidBlockType)
}

func TestDecode_ImportCountsTowardNumFuncImports(t *testing.T) {
	typeSec := []byte{byte(SectionType), 0x04, 0x01, functionTypeByte, 0x00, 0x00}
	// import section: one func import of type 0, module "m", field "f"
	importSec := []byte{
		byte(SectionImport), 0x09,
		0x01,
		0x01, 'm',
		0x01, 'f',
		byte(ImportKindFunc), 0x00,
	}
	data := append(header(), typeSec...)
	data = append(data, importSec...)

	m, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, m.NumFuncImports())
}
