package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const urlHashLen = 10

// ScreenshotName returns "<epoch-millis>_<url-hash>.png". The timestamp keeps
// repeated captures of the same URL distinct.
func ScreenshotName(url string, now time.Time) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%d_%s.png", now.UnixMilli(), hex.EncodeToString(sum[:])[:urlHashLen])
}
