package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for canonicalization")
	ErrKeyCollision    = errors.New("normalized map key collision")
)

// Sum returns the SHA-256 digest of data with the "sha256:" prefix.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Of canonicalizes v and returns its prefixed digest.
func Of(v any) (string, error) {
	canonical, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return Sum(canonical), nil
}

// Canonical encodes v as JSON with sorted keys, NFC-normalized strings and
// nil map entries dropped. Only the shapes decision views are built from are
// accepted: strings, ints, string slices and nested maps.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch value := v.(type) {
	case string:
		return encodeString(buf, value)
	case int:
		buf.WriteString(strconv.Itoa(value))
	case []string:
		if value == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('[')
		for i, s := range value {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, s); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		return encodeMap(buf, value)
	default:
		return ErrUnsupportedType
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(norm.NFC.String(s))
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

func encodeMap(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	values := make(map[string]any, len(m))
	for k, v := range m {
		key := norm.NFC.String(k)
		if _, ok := values[key]; ok {
			return ErrKeyCollision
		}
		values[key] = v
		if v != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, values[key]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
