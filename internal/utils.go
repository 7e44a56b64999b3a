package internal

import (
	"crypto/md5"
	"encoding/hex"
)

// Version is the release version, set at build time with -ldflags
var Version = "dev"

// StableID derives an identifier from a key that stays the same across runs
// Format: fs_md5(key)[:12]
func StableID(key string) string {
	hash := md5.Sum([]byte(key))
	return "fs_" + hex.EncodeToString(hash[:])[:12]
}
