package feed

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
)

// GUIDFromLink derives the stable identifier for a vacancy from its URL:
// the first 16 hex digits of the MD5 sum, folded to a 16-digit zero-padded
// decimal string. The same link always yields the same GUID across runs.
func GUIDFromLink(link string) string {
	sum := md5.Sum([]byte(link))
	hexDig := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseUint(hexDig[:16], 16, 64)
	return fmt.Sprintf("%016d", v%10000000000000000)
}
