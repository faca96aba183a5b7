package util

import (
	"fmt"
	"hash/crc32"
)

// MessageFingerprint returns a CRC32 fingerprint of a message body, used to
// skip duplicate file events for the same content.
func MessageFingerprint(data []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}
