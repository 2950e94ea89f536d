package document

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ParseHTML reads an HTML5 document from r. The HTML parser repairs markup
// the way browsers do, so the result always has an html document element.
func ParseHTML(r io.Reader, opts ...ParseOption) (*Document, error) {
	return parseHTML(r, buildOptions(opts))
}

func parseHTML(r io.Reader, o ParseOptions) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	doc := New()
	if err := doc.importHTML(doc.Root(), root, o); err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	return doc, nil
}

func (d *Document) importHTML(parent Node, src *html.Node, o ParseOptions) error {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := d.NewElement(c.Data)
			for _, a := range c.Attr {
				name := a.Key
				if a.Namespace != "" {
					name = a.Namespace + ":" + a.Key
				}
				if _, err := d.SetAttribute(el, name, a.Val); err != nil {
					return err
				}
			}
			if err := d.AppendChild(parent, el); err != nil {
				return err
			}
			if err := d.importHTML(el, c, o); err != nil {
				return err
			}

		case html.TextNode:
			if parent.Kind() == RootNode {
				continue
			}
			if o.TrimWhitespace && strings.TrimSpace(c.Data) == "" {
				continue
			}
			if err := d.appendText(parent, c.Data); err != nil {
				return err
			}

		case html.CommentNode:
			if err := d.AppendChild(parent, d.NewComment(c.Data)); err != nil {
				return err
			}
		}
	}
	return nil
}
