// Package keygen generates deterministic content-derived surrogate keys.
//
// A key is the MD5 hex digest of the field values cast to canonical text and
// joined with a reserved delimiter. Uniqueness, not secrecy, is the
// requirement, so MD5 is acceptable here.
package keygen

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// delimiter separates field values before hashing. It is reserved: no source
// field value may contain it, which keeps ("a","bc") distinct from ("ab","c").
const delimiter = "-|"

// Key returns the surrogate key for the ordered field values. It is pure and
// order-sensitive: permuting the fields changes the key. Nil fields map to
// the empty string, never to the literal text "null".
func Key(fields ...any) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = canonical(f)
	}
	sum := md5.Sum([]byte(strings.Join(parts, delimiter)))
	return hex.EncodeToString(sum[:])
}

// canonical renders a field value as its canonical text representation.
func canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", x)
	}
}
