package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// KeyNamespace prefixes every result cache key.
const KeyNamespace = "catalog:"

// DeriveKey returns the cache key for a catalog query.
//
// The canonical form is "q=<filter>|o=<order>|p=<page>|ps=<pageSize>", hashed
// with SHA-256 and hex encoded. Filter and order text are used verbatim:
// requests that differ only in whitespace or case get different keys.
func DeriveKey(filterText, orderText string, page, pageSize int) string {
	var sb strings.Builder
	sb.Grow(len(filterText) + len(orderText) + 32)
	sb.WriteString("q=")
	sb.WriteString(filterText)
	sb.WriteString("|o=")
	sb.WriteString(orderText)
	sb.WriteString("|p=")
	sb.WriteString(strconv.Itoa(page))
	sb.WriteString("|ps=")
	sb.WriteString(strconv.Itoa(pageSize))

	sum := sha256.Sum256([]byte(sb.String()))
	return KeyNamespace + hex.EncodeToString(sum[:])
}
