package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVerificationCode_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateVerificationCode()
		assert.GreaterOrEqual(t, code, 10000)
		assert.LessOrEqual(t, code, 99999)
	}
}
