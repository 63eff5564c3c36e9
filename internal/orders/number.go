package orders

import (
	"crypto/rand"
	"time"
)

// Characters that cannot be confused when read aloud or handwritten.
const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns YYMMDDhhmmss-XXXX in UTC. The suffix makes two
// orders placed in the same second distinct with high probability; numbers
// are not monotonic.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	for i := range suffix {
		suffix[i] = numberAlphabet[int(suffix[i])%len(numberAlphabet)]
	}
	return now.UTC().Format("060102150405") + "-" + string(suffix), nil
}
