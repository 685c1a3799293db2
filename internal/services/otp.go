package services

import (
	"math/rand/v2"
	"strconv"
)

// generateOTP returns a six digit code sampled uniformly from [100000, 999999].
// The codes are short-lived, low-value, and delivered out of band, so a
// non-cryptographic source is an accepted trade-off here.
func generateOTP() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}
