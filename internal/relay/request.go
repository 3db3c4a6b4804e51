package relay

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// LocationParam is the form field that carries the requested location.
const LocationParam = "text"

// bodyEncodings are tried in order; gateways differ on padding and alphabet.
var bodyEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeLocation extracts the "text" form value from a base64 webhook body.
//
// The decoded bytes are parsed as application/x-www-form-urlencoded the way
// browsers do: pairs split on "&" only, "+" is a space, and a "%" that does
// not start a valid escape is kept as is. Invalid UTF-8 becomes U+FFFD. The
// first "text" value is returned; nil means the field is absent.
//
// A non-nil error wraps ErrMalformedBody and means the body was not base64;
// the location is then nil.
func DecodeLocation(body string) (*string, error) {
	raw, err := decodeBase64(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	form := parseForm(strings.TrimPrefix(string(raw), "?"))

	values, ok := form[LocationParam]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	location := values[0]
	return &location, nil
}

// parseForm never fails: every "&"-separated sequence yields a pair.
func parseForm(text string) url.Values {
	form := url.Values{}
	for _, pair := range strings.Split(text, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		key := unescapeFormValue(name)
		form[key] = append(form[key], unescapeFormValue(value))
	}
	return form
}

// unescapeFormValue replaces "+" with a space and decodes %XX escapes,
// leaving malformed escapes untouched.
func unescapeFormValue(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return strings.ToValidUTF8(s, "\uFFFD")
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

func decodeBase64(body string) ([]byte, error) {
	body = strings.TrimSpace(body)

	var firstErr error
	for _, enc := range bodyEncodings {
		raw, err := enc.DecodeString(body)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
