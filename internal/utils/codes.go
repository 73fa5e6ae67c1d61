package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// алфавит без визуально похожих символов (0/O, 1/l/I)
const readableAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateReadableCode — читаемый код доступа из crypto/rand.
func GenerateReadableCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}
	max := big.NewInt(int64(len(readableAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = readableAlphabet[n.Int64()]
	}
	return string(b), nil
}

// NewEmailToken — 16 случайных байт в hex (32 символа), для ссылки верификации.
func NewEmailToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewOTP — шестизначный код 100000..999999.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
