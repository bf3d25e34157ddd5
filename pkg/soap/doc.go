// Package soap builds SOAP 1.1 request envelopes in the single-line layout
// produced by NuSOAP, which some PHP services parse literally.
//
// Parameters are rendered in the order given, one element per pair, with an
// xsi:type hint derived from the JSON value. Keys consisting only of digits
// are renamed to __numeric_N the way NuSOAP serializes PHP list indexes.
//
// The envelope is encoded in the configured charset. For ISO-8859-1, the
// default, characters outside Latin-1 are written as numeric character
// references so the document stays well formed.
package soap
