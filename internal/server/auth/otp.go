package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const otpDigits = 6

var otpReader io.Reader = rand.Reader

// GenerateOTP returns a uniformly random 6-digit code, zero padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(otpReader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
