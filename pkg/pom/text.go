package pom

import (
	"encoding/xml"
	"strings"
)

type textKind uint8

const (
	textAbsent textKind = iota
	textPlain
	textNode
)

// Text is the content of an XML element that may be either plain character
// data (<version>1.0</version>) or a node wrapping its text in child markup
// or attributes (<version combine="x">1.0<!-- pinned --></version>).
//
// The zero value is an absent element.
type Text struct {
	kind  textKind
	value string
}

// PlainText returns a Text holding s as plain character data.
func PlainText(s string) Text {
	return Text{kind: textPlain, value: s}
}

// Value flattens the element to its text. ok is false when the element was
// absent or was a node without any direct text.
func (t Text) Value() (v string, ok bool) {
	switch t.kind {
	case textPlain:
		return t.value, true
	case textNode:
		return t.value, t.value != ""
	}
	return "", false
}

// String returns the flattened text, or "" when there is none.
func (t Text) String() string {
	v, _ := t.Value()
	return v
}

// IsNode reports whether the element carried markup around its text.
func (t Text) IsNode() bool { return t.kind == textNode }

// UnmarshalXML collects the element's direct character data. Text inside
// nested elements is ignored; their presence only marks the value as a node.
func (t *Text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	kind := textPlain
	if len(start.Attr) > 0 {
		kind = textNode
	}

	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
			kind = textNode
		case xml.EndElement:
			if depth == 0 {
				*t = Text{kind: kind, value: strings.TrimSpace(b.String())}
				return nil
			}
			depth--
		case xml.CharData:
			if depth == 0 {
				b.Write(tok)
			}
		case xml.Comment:
			kind = textNode
		}
	}
}

// Properties maps property names to their flattened values.
type Properties map[string]string

// UnmarshalXML decodes every child element of <properties> as one entry.
// Plain empty elements are kept with an empty value; nodes without direct
// text are dropped. A repeated key keeps the last value.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if *p == nil {
		*p = make(Properties)
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			var t Text
			if err := d.DecodeElement(&t, &tok); err != nil {
				return err
			}
			if v, ok := t.Value(); ok {
				(*p)[tok.Name.Local] = v
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Merge returns a new table holding base overlaid with top.
func Merge(base, top Properties) Properties {
	out := make(Properties, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}
