package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewConfirmationCode returns a short customer-facing code of the form
// CR<6 timestamp digits><3 random digits>.  The timestamp tail keeps codes
// roughly ordered while the random suffix avoids collisions between
// reservations created in the same second.
func NewConfirmationCode() (string, error) {
	ts := fmt.Sprintf("%d", time.Now().UTC().Unix())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CR%s%03d", ts, n.Int64()), nil
}
