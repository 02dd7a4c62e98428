package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// URLPrefix is the public path under which stored assets are served.
const URLPrefix = "/uploads/"

var now = time.Now

// NewKey derives a storage key from the original file name. Keys combine a
// nanosecond timestamp with random hex, so concurrent uploads of the same
// name never collide.
func NewKey(originalName string) (string, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s-%s", now().UnixNano(), suffix, sanitizeName(originalName)), nil
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := strings.TrimLeft(b.String(), ".")
	if s == "" {
		return "image"
	}
	return s
}

// RefForKey returns the public reference of a stored key.
func RefForKey(key string) string {
	return URLPrefix + key
}

// KeyFromRef extracts the storage key from a reference produced by RefForKey.
// References that did not come from this store report ok == false.
func KeyFromRef(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, URLPrefix)
	if !ok || !validKey(key) {
		return "", false
	}
	return key, true
}

func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, `/\`)
}
