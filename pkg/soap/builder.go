package soap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"mercator-hq/egress/pkg/envelope"
)

const (
	// CharsetLatin1 is the NuSOAP default encoding.
	CharsetLatin1 = "ISO-8859-1"

	// CharsetUTF8 sends the envelope unchanged.
	CharsetUTF8 = "UTF-8"

	// Prefix is the namespace prefix NuSOAP assigns to the method element.
	Prefix = "ns1766"

	envelopeOpen = `SOAP-ENV:Envelope SOAP-ENV:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"` +
		` xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"` +
		` xmlns:xsd="http://www.w3.org/2001/XMLSchema"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:SOAP-ENC="http://schemas.xmlsoap.org/soap/encoding/"`
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Builder renders request envelopes for one charset.
type Builder struct {
	charset string
}

// NewBuilder returns a Builder for charset, which must be ISO-8859-1 or
// UTF-8 (case-insensitive).
func NewBuilder(charset string) (*Builder, error) {
	switch strings.ToUpper(charset) {
	case CharsetLatin1:
		return &Builder{charset: CharsetLatin1}, nil
	case CharsetUTF8:
		return &Builder{charset: CharsetUTF8}, nil
	default:
		return nil, fmt.Errorf("unsupported SOAP charset %q", charset)
	}
}

// Charset returns the canonical charset name.
func (b *Builder) Charset() string {
	return b.charset
}

// ContentType returns the Content-Type header value for built envelopes.
func (b *Builder) ContentType() string {
	return "text/xml; charset=" + b.charset
}

// Action returns the SOAPAction header value for action in namespace.
func Action(namespace, action string) string {
	return `"` + namespace + "#" + action + `"`
}

// Build renders the envelope for action in namespace with params as the
// method's children, in order. An action or key that cannot be an element
// name in the builder's charset, or text holding characters XML forbids, is
// reported as *envelope.ValidationError.
func (b *Builder) Build(action, namespace string, params envelope.OrderedParams) ([]byte, error) {
	if msg := b.checkName(action); msg != "" {
		return nil, &envelope.ValidationError{
			Field:   "action",
			Message: fmt.Sprintf("action %q %s", action, msg),
		}
	}
	if !isXMLText(namespace) {
		return nil, &envelope.ValidationError{
			Field:   "namespace",
			Message: "namespace contains characters not allowed in XML",
		}
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="`)
	sb.WriteString(b.charset)
	sb.WriteString(`"?><`)
	sb.WriteString(envelopeOpen)
	sb.WriteString("><SOAP-ENV:Body>")

	fmt.Fprintf(&sb, `<%s:%s xmlns:%s="%s">`, Prefix, action, Prefix, escaper.Replace(namespace))
	for i, p := range params {
		name := elementName(p.Key)
		if msg := b.checkName(name); msg != "" {
			return nil, &envelope.ValidationError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("param key %q %s", p.Key, msg),
			}
		}
		xsdType, text := typed(p.Value)
		if !isXMLText(text) {
			return nil, &envelope.ValidationError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("value of %q contains characters not allowed in XML", p.Key),
			}
		}
		fmt.Fprintf(&sb, `<%s xsi:type="%s">%s</%s>`, name, xsdType, text, name)
	}
	fmt.Fprintf(&sb, "</%s:%s>", Prefix, action)

	sb.WriteString("</SOAP-ENV:Body></SOAP-ENV:Envelope>")

	if b.charset == CharsetLatin1 {
		return encodeLatin1(sb.String()), nil
	}
	return []byte(sb.String()), nil
}

// elementName maps purely numeric keys to NuSOAP's __numeric_N form.
func elementName(key string) string {
	if key == "" {
		return key
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return key
		}
	}
	return "__numeric_" + key
}

// typed returns the xsi type hint and escaped text content for a value.
func typed(raw json.RawMessage) (string, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "xsd:string", ""
	}

	switch c := trimmed[0]; {
	case c == 't' || c == 'f':
		return "xsd:boolean", string(trimmed)
	case c == 'n':
		return "xsd:string", ""
	case c == '-' || (c >= '0' && c <= '9'):
		if bytes.ContainsAny(trimmed, ".eE") {
			return "xsd:float", string(trimmed)
		}
		return "xsd:int", string(trimmed)
	default:
		return "xsd:string", escaper.Replace(envelope.ScalarString(trimmed))
	}
}

// checkName returns why name cannot be an element name in this builder's
// charset, or "" when it can. Character references are not allowed in tag
// names, so Latin-1 envelopes only take names inside that range.
func (b *Builder) checkName(name string) string {
	if !isXMLName(name) {
		return "is not a valid XML element name"
	}
	if b.charset == CharsetLatin1 {
		for _, r := range name {
			if r > 0xFF {
				return "cannot be encoded as " + CharsetLatin1
			}
		}
	}
	return ""
}

// isXMLText reports whether every rune of s is a legal XML 1.0 character.
func isXMLText(s string) bool {
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

func isXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func encodeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if b, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = fmt.Appendf(out, "&#%d;", r)
	}
	return out
}
