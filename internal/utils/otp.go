package utils

import "math/rand"

// GenerateVerificationCode returns a 5-digit numeric OTP. The first digit is
// 1-9, so the code is always in [10000, 99999].
func GenerateVerificationCode() int {
	return 10000 + rand.Intn(90000)
}
