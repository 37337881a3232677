package pgtype

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// clientEncodings maps cleaned PostgreSQL encoding names and their aliases to
// text encodings. SQL_ASCII performs no conversion at all.
var clientEncodings = map[string]encoding.Encoding{
	"utf8":        unicode.UTF8,
	"unicode":     unicode.UTF8,
	"sqlascii":    encoding.Nop,
	"latin1":      charmap.ISO8859_1,
	"iso88591":    charmap.ISO8859_1,
	"latin2":      charmap.ISO8859_2,
	"iso88592":    charmap.ISO8859_2,
	"latin3":      charmap.ISO8859_3,
	"iso88593":    charmap.ISO8859_3,
	"latin4":      charmap.ISO8859_4,
	"iso88594":    charmap.ISO8859_4,
	"latin5":      charmap.ISO8859_9,
	"iso88599":    charmap.ISO8859_9,
	"latin6":      charmap.ISO8859_10,
	"iso885910":   charmap.ISO8859_10,
	"latin7":      charmap.ISO8859_13,
	"iso885913":   charmap.ISO8859_13,
	"latin8":      charmap.ISO8859_14,
	"iso885914":   charmap.ISO8859_14,
	"latin9":      charmap.ISO8859_15,
	"iso885915":   charmap.ISO8859_15,
	"latin10":     charmap.ISO8859_16,
	"iso885916":   charmap.ISO8859_16,
	"iso88595":    charmap.ISO8859_5,
	"iso88596":    charmap.ISO8859_6,
	"iso88597":    charmap.ISO8859_7,
	"iso88598":    charmap.ISO8859_8,
	"koi8r":       charmap.KOI8R,
	"koi8":        charmap.KOI8R,
	"koi8u":       charmap.KOI8U,
	"win866":      charmap.CodePage866,
	"alt":         charmap.CodePage866,
	"win874":      charmap.Windows874,
	"win1250":     charmap.Windows1250,
	"win1251":     charmap.Windows1251,
	"win":         charmap.Windows1251,
	"win1252":     charmap.Windows1252,
	"win1253":     charmap.Windows1253,
	"win1254":     charmap.Windows1254,
	"win1255":     charmap.Windows1255,
	"win1256":     charmap.Windows1256,
	"win1257":     charmap.Windows1257,
	"win1258":     charmap.Windows1258,
	"eucjp":       japanese.EUCJP,
	"sjis":        japanese.ShiftJIS,
	"shiftjis":    japanese.ShiftJIS,
	"euckr":       korean.EUCKR,
	"big5":        traditionalchinese.Big5,
	"gbk":         simplifiedchinese.GBK,
	"gb18030":     simplifiedchinese.GB18030,
	"windows1250": charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"windows1252": charmap.Windows1252,
}

// cleanEncodingName mimics PostgreSQL's normalization of encoding names:
// non-alphanumeric characters are dropped and letters are lower cased.
func cleanEncodingName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			sb.WriteByte(c + ('a' - 'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// LookupClientEncoding returns the text encoding for the PostgreSQL client
// encoding name. An empty name is UTF-8.
func LookupClientEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}

	enc, ok := clientEncodings[cleanEncodingName(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported client encoding: %q", name)
	}
	return enc, nil
}

// clientEncoding returns the encoding of ci. Connections with an unsupported
// encoding decode as UTF-8.
func clientEncoding(ci ConnInfo) encoding.Encoding {
	if ci == nil {
		return unicode.UTF8
	}

	enc, err := LookupClientEncoding(ci.ClientEncoding())
	if err != nil {
		return unicode.UTF8
	}
	return enc
}

// textDecoder returns a function decoding client encoded bytes to a string.
func textDecoder(enc encoding.Encoding) func(src []byte) (string, error) {
	switch enc {
	case unicode.UTF8:
		return func(src []byte) (string, error) {
			if !utf8.Valid(src) {
				return "", fmt.Errorf("invalid byte sequence for encoding UTF8")
			}
			return string(src), nil
		}
	case encoding.Nop:
		return func(src []byte) (string, error) {
			return string(src), nil
		}
	default:
		dec := enc.NewDecoder()
		return func(src []byte) (string, error) {
			buf, err := dec.Bytes(src)
			if err != nil {
				return "", err
			}
			return string(buf), nil
		}
	}
}

// textEncoder returns a function converting a string into client encoded bytes.
func textEncoder(enc encoding.Encoding) func(s string) ([]byte, error) {
	switch enc {
	case unicode.UTF8, encoding.Nop:
		return func(s string) ([]byte, error) {
			return []byte(s), nil
		}
	default:
		e := enc.NewEncoder()
		return func(s string) ([]byte, error) {
			return e.Bytes([]byte(s))
		}
	}
}

// AppendClientText appends s to buf in the client encoding of ci.
func AppendClientText(ci ConnInfo, buf []byte, s string) ([]byte, error) {
	encoded, err := textEncoder(clientEncoding(ci))(s)
	if err != nil {
		return nil, err
	}
	return append(buf, encoded...), nil
}
