package soap

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"mercator-hq/egress/pkg/envelope"
)

func pairs(t *testing.T, doc string) envelope.OrderedParams {
	t.Helper()
	var p envelope.OrderedParams
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatalf("failed to decode params: %v", err)
	}
	return p
}

func TestBuild_Scenario(t *testing.T) {
	b, err := NewBuilder("ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}

	body, err := b.Build("getDIDCountry", "urn:getDIDCountry", pairs(t, `[["did","123"],["country","US"]]`))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := `<?xml version="1.0" encoding="ISO-8859-1"?>` +
		`<SOAP-ENV:Envelope SOAP-ENV:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"` +
		` xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"` +
		` xmlns:xsd="http://www.w3.org/2001/XMLSchema"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:SOAP-ENC="http://schemas.xmlsoap.org/soap/encoding/">` +
		`<SOAP-ENV:Body>` +
		`<ns1766:getDIDCountry xmlns:ns1766="urn:getDIDCountry">` +
		`<did xsi:type="xsd:string">123</did>` +
		`<country xsi:type="xsd:string">US</country>` +
		`</ns1766:getDIDCountry>` +
		`</SOAP-ENV:Body></SOAP-ENV:Envelope>`

	if string(body) != want {
		t.Errorf("envelope mismatch\n got: %s\nwant: %s", body, want)
	}
	if strings.Contains(string(body), "\n") {
		t.Error("envelope must be a single line")
	}
}

func TestBuild_OrderPreserved(t *testing.T) {
	b, _ := NewBuilder("UTF-8")

	tests := []struct {
		name   string
		params string
		order  []string
	}{
		{"given order", `[["did","1234567890"],["country","US"]]`, []string{"<did ", "<country "}},
		{"reversed", `[["country","US"],["did","1234567890"]]`, []string{"<country ", "<did "}},
		{"duplicates", `[["item","a"],["other","x"],["item","b"]]`, []string{">a</item>", "<other ", ">b</item>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := b.Build("call", "urn:test", pairs(t, tt.params))
			if err != nil {
				t.Fatal(err)
			}
			s := string(body)
			last := -1
			for _, marker := range tt.order {
				idx := strings.Index(s[last+1:], marker)
				if idx < 0 {
					t.Fatalf("%q not found after offset %d in %s", marker, last, s)
				}
				last += idx + 1
			}
		})
	}
}

func TestBuild_TypeHints(t *testing.T) {
	b, _ := NewBuilder("UTF-8")

	body, err := b.Build("call", "urn:test", pairs(t,
		`[["b",true],["i",42],["neg",-7],["f",1.5],["n",null],["s","a<b & 'c'"],["o",{"k":[1,2]}],["0","zero"]]`))
	if err != nil {
		t.Fatal(err)
	}
	s := string(body)

	for _, want := range []string{
		`<b xsi:type="xsd:boolean">true</b>`,
		`<i xsi:type="xsd:int">42</i>`,
		`<neg xsi:type="xsd:int">-7</neg>`,
		`<f xsi:type="xsd:float">1.5</f>`,
		`<n xsi:type="xsd:string"></n>`,
		`<s xsi:type="xsd:string">a&lt;b &amp; &apos;c&apos;</s>`,
		`<o xsi:type="xsd:string">{&quot;k&quot;:[1,2]}</o>`,
		`<__numeric_0 xsi:type="xsd:string">zero</__numeric_0>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestBuild_Latin1(t *testing.T) {
	b, _ := NewBuilder("iso-8859-1")

	body, err := b.Build("call", "urn:test", pairs(t, `[["city","Zürich 中"]]`))
	if err != nil {
		t.Fatal(err)
	}

	want := []byte("Z\xfcrich &#20013;")
	if !strings.Contains(string(body), string(want)) {
		t.Errorf("expected Latin-1 bytes with a character reference, got %q", body)
	}
}

func TestBuild_UTF8(t *testing.T) {
	b, _ := NewBuilder("utf-8")
	if b.ContentType() != "text/xml; charset=UTF-8" {
		t.Errorf("content type = %q", b.ContentType())
	}

	body, _ := b.Build("call", "urn:test", pairs(t, `[["city","Zürich"]]`))
	if !strings.Contains(string(body), "Zürich") || !strings.HasPrefix(string(body), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("unexpected UTF-8 envelope: %s", body)
	}
}

func TestBuild_InvalidNames(t *testing.T) {
	b, _ := NewBuilder("ISO-8859-1")

	tests := []struct {
		name      string
		action    string
		params    string
		wantField string
	}{
		{"action with space", "get thing", `[]`, "action"},
		{"action starting with digit", "1call", `[]`, "action"},
		{"key with markup", "call", `[["ok","1"],["a<b","2"]]`, "params[1]"},
		{"empty key", "call", `[["","x"]]`, "params[0]"},
		{"key outside latin-1", "call", `[["名前","v"]]`, "params[0]"},
		{"action outside latin-1", "取得", `[]`, "action"},
		{"control character in value", "call", `[["ok","1"],["ctl","a\u0001b"]]`, "params[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.action, "urn:test", pairs(t, tt.params))
			var valErr *envelope.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", valErr.Field, tt.wantField)
			}
		})
	}
}

func TestBuild_NamespaceControlCharacter(t *testing.T) {
	b, _ := NewBuilder("UTF-8")
	_, err := b.Build("call", "urn:\x01test", nil)
	var valErr *envelope.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "namespace" {
		t.Fatalf("expected namespace ValidationError, got %v", err)
	}
}

func TestBuild_WellFormed(t *testing.T) {
	tests := []struct {
		charset string
		params  string
	}{
		{"ISO-8859-1", `[["größe","42"],["note","日本 & <tag>"]]`},
		{"UTF-8", `[["名前","値"],["tab","a\tb"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			b, _ := NewBuilder(tt.charset)
			body, err := b.Build("call", "urn:test", pairs(t, tt.params))
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}

			dec := xml.NewDecoder(strings.NewReader(string(body)))
			dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
				return charmap.ISO8859_1.NewDecoder().Reader(r), nil
			}
			for {
				if _, err := dec.Token(); err == io.EOF {
					break
				} else if err != nil {
					t.Fatalf("envelope is not well-formed XML: %v\n%s", err, body)
				}
			}
		})
	}
}

func TestNewBuilder(t *testing.T) {
	if _, err := NewBuilder("Shift_JIS"); err == nil {
		t.Error("expected error for unsupported charset")
	}

	b, err := NewBuilder("iso-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Charset() != CharsetLatin1 {
		t.Errorf("charset = %q", b.Charset())
	}
	if b.ContentType() != "text/xml; charset=ISO-8859-1" {
		t.Errorf("content type = %q", b.ContentType())
	}
}

func TestAction(t *testing.T) {
	if got := Action("urn:getDIDCountry", "getDIDCountry"); got != `"urn:getDIDCountry#getDIDCountry"` {
		t.Errorf("Action() = %s", got)
	}
}
