// Package encoding provides text encoding utilities for RSE asset formats.
package encoding

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts ISO 8859-1 (Latin-1) encoded bytes to a UTF-8 string.
// Every byte maps to the identically-valued code point, so accented characters
// in asset names (e.g. 0xE9 in "intérieur") survive the conversion exactly.
// Returns the raw bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	decoder := charmap.ISO8859_1.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to ISO 8859-1 encoded bytes.
// Returns the original bytes if the string contains code points outside
// Latin-1.
func UTF8ToLatin1(s string) []byte {
	encoder := charmap.ISO8859_1.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}
