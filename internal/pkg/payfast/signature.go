package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Field is a single key/value pair destined for the signature base string.
// Fields preserves insertion order for callers that care (the checkout form),
// but signing always canonicalizes internally.
type Field struct {
	Key   string
	Value string
}

type Fields []Field

// Set appends or replaces a field by key.
func (f Fields) Set(key, value string) Fields {
	for i := range f {
		if f[i].Key == key {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Key: key, Value: value})
}

// Get returns the value for a key, or "".
func (f Fields) Get(key string) string {
	for i := range f {
		if f[i].Key == key {
			return f[i].Value
		}
	}
	return ""
}

// Without returns a copy of the fields with the given key removed.
func (f Fields) Without(key string) Fields {
	out := make(Fields, 0, len(f))
	for _, fld := range f {
		if fld.Key != key {
			out = append(out, fld)
		}
	}
	return out
}

// FieldsFromMap builds Fields from a plain map. Order is irrelevant for
// signing since the base string is sorted.
func FieldsFromMap(m map[string]string) Fields {
	out := make(Fields, 0, len(m))
	for k, v := range m {
		out = append(out, Field{Key: k, Value: v})
	}
	return out
}

// BaseString produces the canonical signature base string: empty values are
// dropped, the remaining fields are sorted by key in byte order, each pair is
// joined as key=value with application/x-www-form-urlencoded percent-encoding
// (space encodes as '+', not '%20' - PayFast's own implementation uses the
// legacy form encoding and any deviation breaks signature parity), and the
// passphrase is appended as a trailing pseudo-field when non-empty.
func BaseString(fields Fields, passphrase string) string {
	kept := make(Fields, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		kept = append(kept, f)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Key < kept[j].Key })

	var b strings.Builder
	for i, f := range kept {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	if passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(url.QueryEscape(passphrase))
	}
	return b.String()
}

// Sign computes the lowercase-hex MD5 digest of the canonical base string.
// MD5 is mandated by the provider for wire compatibility; it is an interop
// constraint, not an integrity guarantee.
func Sign(fields Fields, passphrase string) string {
	sum := md5.Sum([]byte(BaseString(fields, passphrase)))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the digest for the given fields and compares it
// case-insensitively against the posted value.
func VerifySignature(fields Fields, passphrase, posted string) bool {
	posted = strings.TrimSpace(posted)
	if posted == "" {
		return false
	}
	return strings.EqualFold(Sign(fields, passphrase), posted)
}
