package document

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// ParseOption configures document parsing.
type ParseOption func(*ParseOptions)

// ParseOptions holds parser configuration.
type ParseOptions struct {
	// TrimWhitespace drops text nodes made only of whitespace.
	TrimWhitespace bool
	// HTML parses the input with an HTML5 parser instead of the XML one.
	HTML bool
}

// WithTrimWhitespace enables or disables dropping whitespace-only text.
func WithTrimWhitespace(enable bool) ParseOption {
	return func(opts *ParseOptions) {
		opts.TrimWhitespace = enable
	}
}

// WithHTML selects the HTML parser.
func WithHTML(enable bool) ParseOption {
	return func(opts *ParseOptions) {
		opts.HTML = enable
	}
}

func buildOptions(opts []ParseOption) ParseOptions {
	var o ParseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ParseString parses an XML (or, with WithHTML, HTML) document held in a string.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Parse reads a whole XML document from r.
//
// Namespace prefixes are kept verbatim in element and attribute names
// ("xs:element"); namespace declarations are not exposed as attributes.
// Non UTF-8 encodings declared in the XML prolog are decoded transparently.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	o := buildOptions(opts)
	if o.HTML {
		return parseHTML(r, o)
	}

	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	doc := New()
	stack := []Node{doc.Root()}
	names := []string{""}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse xml")
		}
		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualifiedName(t.Name)
			el := doc.NewElement(name)
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				if _, err := doc.SetAttribute(el, qualifiedName(a.Name), a.Value); err != nil {
					return nil, errors.Wrap(err, "parse xml")
				}
			}
			if err := doc.AppendChild(top, el); err != nil {
				return nil, errors.Wrap(err, "parse xml")
			}
			stack = append(stack, el)
			names = append(names, name)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 1 || names[len(names)-1] != name {
				return nil, errors.Wrapf(errUnbalancedMarkup, "parse xml: unexpected </%s>", name)
			}
			stack = stack[:len(stack)-1]
			names = names[:len(names)-1]

		case xml.CharData:
			text := string(t)
			if top.Kind() == RootNode {
				// Only whitespace may appear outside the document element.
				continue
			}
			if o.TrimWhitespace && strings.TrimSpace(text) == "" {
				continue
			}
			if err := doc.appendText(top, text); err != nil {
				return nil, errors.Wrap(err, "parse xml")
			}

		case xml.Comment:
			if err := doc.AppendChild(top, doc.NewComment(string(t))); err != nil {
				return nil, errors.Wrap(err, "parse xml")
			}

		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			pi := doc.NewProcessingInstruction(t.Target, strings.TrimSpace(string(t.Inst)))
			if err := doc.AppendChild(top, pi); err != nil {
				return nil, errors.Wrap(err, "parse xml")
			}
		}
	}

	if len(stack) != 1 {
		return nil, errors.Wrapf(errUnbalancedMarkup, "parse xml: <%s> not closed", names[len(names)-1])
	}
	if _, ok := doc.DocumentElement(); !ok {
		return nil, errors.New("parse xml: no document element")
	}
	return doc, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}
