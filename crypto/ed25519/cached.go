package ed25519

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
)

const verifyCacheSize = 8192

var (
	cacheMu sync.Mutex
	cache   *lru.Cache
)

// InitCache will enable the ed25519 cached
func InitCache() {
	InitCacheWithSize(verifyCacheSize)
}

// InitCacheWithSize enables the verification cache holding at most size entries.
func InitCacheWithSize(size int) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	cache = lru.New(size)
}

func cacheKey(publicKey PublicKey, message, sig []byte) string {
	return strings.Join([]string{hex.EncodeToString(publicKey), hex.EncodeToString(message), hex.EncodeToString(sig)}, ":")
}

func checkVerifyCache(publicKey PublicKey, message, sig []byte) bool {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cache == nil {
		return false
	}

	_, isVerified := cache.Get(cacheKey(publicKey, message, sig))
	return isVerified
}

func saveVerifyCache(publicKey PublicKey, message, sig []byte) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cache != nil {
		cache.Add(cacheKey(publicKey, message, sig), true)
	}
}
