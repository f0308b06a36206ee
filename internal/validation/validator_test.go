package validation

import (
	"testing"

	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElementValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		width   uint
		want    uint64
		wantErr bool
	}{
		{"decimal", "13", 4, 13, false},
		{"hex", "0x53", 8, 0x53, false},
		{"upper hex", "0XFF", 8, 0xff, false},
		{"binary", "0b1101", 4, 13, false},
		{"trimmed", "  7 ", 4, 7, false},
		{"full width", "0xffffffffffffffff", 64, ^uint64(0), false},
		{"out of range", "16", 4, 0, true},
		{"hex out of range", "0x100", 8, 0, true},
		{"negative", "-3", 4, 0, true},
		{"empty", "", 4, 0, true},
		{"garbage", "12a", 8, 0, true},
		{"bad binary", "0b102", 8, 0, true},
		{"overflow", "0x1ffffffffffffffff", 64, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseElementValue(tt.input, tt.width)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseElementValueRangeError(t *testing.T) {
	_, err := ParseElementValue("16", 4)
	assert.ErrorIs(t, err, gf2n.ErrValueOutOfRange)
}

func TestParseByte(t *testing.T) {
	b, err := ParseByte("0x53")
	require.NoError(t, err)
	assert.Equal(t, byte(0x53), b)

	_, err = ParseByte("256")
	assert.Error(t, err)
}

func TestValidateWidth(t *testing.T) {
	assert.NoError(t, ValidateWidth(1))
	assert.NoError(t, ValidateWidth(64))
	assert.ErrorIs(t, ValidateWidth(0), gf2n.ErrInvalidWidth)
	assert.ErrorIs(t, ValidateWidth(65), gf2n.ErrInvalidWidth)

	assert.NoError(t, ValidateTableWidth(16))
	assert.ErrorIs(t, ValidateTableWidth(17), gf2n.ErrFieldTooLarge)
	assert.ErrorIs(t, ValidateTableWidth(0), gf2n.ErrInvalidWidth)

	assert.NoError(t, ValidateCayleyWidth(8))
	assert.ErrorIs(t, ValidateCayleyWidth(9), gf2n.ErrFieldTooLarge)
	assert.ErrorIs(t, ValidateCayleyWidth(16), gf2n.ErrFieldTooLarge)
	assert.ErrorIs(t, ValidateCayleyWidth(0), gf2n.ErrInvalidWidth)
}

func TestSanitizeFileName(t *testing.T) {
	name, err := SanitizeFileName(" table1.txt ")
	require.NoError(t, err)
	assert.Equal(t, "table1.txt", name)

	for _, bad := range []string{"", "..", "out/table.txt", `out\table.txt`} {
		_, err := SanitizeFileName(bad)
		assert.Error(t, err, "name=%q", bad)
	}
}
