package utils

import (
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReadableCode(t *testing.T) {
	// Алфавит без неоднозначных символов: никаких 0/O, 1/l/I
	for i := 0; i < 50; i++ {
		code, err := GenerateReadableCode(8)
		assert.NoError(t, err)
		assert.Len(t, code, 8)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "l")
		assert.NotContains(t, code, "I")
		for _, r := range code {
			assert.True(t, strings.ContainsRune(readableAlphabet, r), "символ %q вне алфавита", r)
		}
	}
}

func TestGenerateReadableCode_Distinct(t *testing.T) {
	a, err := GenerateReadableCode(8)
	assert.NoError(t, err)
	b, err := GenerateReadableCode(8)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewEmailToken(t *testing.T) {
	token, err := NewEmailToken()
	assert.NoError(t, err)
	// 16 байт -> 32 hex-символа
	assert.Len(t, token, 32)
	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
}

func TestNewOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := NewOTP()
		assert.NoError(t, err)
		assert.Len(t, otp, 6)
		n, err := strconv.Atoi(otp)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
