package ldconsole

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// DecodeGBK decodes manager output from GBK into a UTF-8 string.
//
// Decoding is strict: the x/text decoder substitutes U+FFFD for byte
// sequences that are not valid GBK, and GBK has no code point mapping to
// U+FFFD, so any replacement character in the result means the input was
// invalid. In that case ErrEncoding is returned and the text is discarded.
func DecodeGBK(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil {
		return "", ErrEncoding
	}

	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", ErrEncoding
	}

	return text, nil
}
