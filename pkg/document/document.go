// Package document provides the read-only tree model that XPath expressions
// are evaluated against.
//
// A Document owns every node it contains in a single slice (an arena). A
// Node is a small comparable handle made of the owning document and an
// index into that arena, so two handles are equal exactly when they refer
// to the same tree position. Parent links are stored as indices, which keeps
// the back-reference weak and ancestor walks O(1) per step.
//
// # Building a tree
//
//	doc := document.New()
//	book := doc.NewElement("book")
//	_ = doc.AppendChild(doc.Root(), book)
//	_, _ = doc.SetAttribute(book, "id", "b1")
//	_ = doc.AppendChild(book, doc.NewText("Dune"))
//
// Trees are usually produced by Parse, ParseHTML or Load. Once handed to the
// evaluator a document must no longer be modified; concurrent readers are
// then safe.
package document

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// NodeKind identifies the kind of a tree node.
type NodeKind uint8

const (
	RootNode NodeKind = iota
	ElementNode
	AttributeNode
	TextNode
	CommentNode
	ProcessingInstructionNode
)

// String returns the XPath name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "root"
	case ElementNode:
		return "element"
	case AttributeNode:
		return "attribute"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcessingInstructionNode:
		return "processing-instruction"
	default:
		return "(unknown)"
	}
}

// Errors returned by the construction API.
var (
	ErrForeignNode      = errors.New("node belongs to another document")
	ErrInvalidParent    = errors.New("only the root and elements can have children")
	ErrInvalidChild     = errors.New("node kind cannot be appended as a child")
	ErrAlreadyAttached  = errors.New("node already has a parent")
	ErrCycle            = errors.New("appending node would create a cycle")
	ErrNotAnElement     = errors.New("attributes can only be set on elements")
	ErrZeroNode         = errors.New("zero node")
	errUnbalancedMarkup = errors.New("unbalanced markup")
)

const noParent int32 = -1

// docSeq orders documents relative to each other.
var docSeq atomic.Uint64

type nodeData struct {
	kind     NodeKind
	name     string
	value    string
	parent   int32
	index    int32 // rank among the parent's attributes or children
	attrs    []int32
	children []int32
}

// Document is an arena-backed node tree. The zero value is not usable; call New.
type Document struct {
	seq   uint64
	nodes []nodeData
}

// New creates an empty document containing only its root node.
func New() *Document {
	d := &Document{seq: docSeq.Add(1)}
	d.nodes = append(d.nodes, nodeData{kind: RootNode, parent: noParent})
	return d
}

// Root returns the document's root node.
func (d *Document) Root() Node {
	return Node{doc: d, id: 0}
}

// Seq returns the document's creation sequence number. Documents created
// later have larger numbers.
func (d *Document) Seq() uint64 {
	return d.seq
}

// Len returns the number of nodes allocated in the document, attached or not.
func (d *Document) Len() int {
	return len(d.nodes)
}

// DocumentElement returns the first element child of the root.
func (d *Document) DocumentElement() (Node, bool) {
	for _, c := range d.nodes[0].children {
		if d.nodes[c].kind == ElementNode {
			return Node{doc: d, id: c}, true
		}
	}
	return Node{}, false
}

func (d *Document) alloc(kind NodeKind, name, value string) Node {
	d.nodes = append(d.nodes, nodeData{
		kind:   kind,
		name:   name,
		value:  value,
		parent: noParent,
	})
	return Node{doc: d, id: int32(len(d.nodes) - 1)}
}

// NewElement allocates a detached element.
func (d *Document) NewElement(name string) Node {
	return d.alloc(ElementNode, name, "")
}

// NewText allocates a detached text node.
func (d *Document) NewText(text string) Node {
	return d.alloc(TextNode, "", text)
}

// NewComment allocates a detached comment.
func (d *Document) NewComment(text string) Node {
	return d.alloc(CommentNode, "", text)
}

// NewProcessingInstruction allocates a detached processing instruction.
func (d *Document) NewProcessingInstruction(target, data string) Node {
	return d.alloc(ProcessingInstructionNode, target, data)
}

// SetAttribute sets name to value on el, replacing any previous value, and
// returns the attribute node.
func (d *Document) SetAttribute(el Node, name, value string) (Node, error) {
	if el.doc != d {
		return Node{}, ErrForeignNode
	}
	if el.Kind() != ElementNode {
		return Node{}, ErrNotAnElement
	}
	for _, a := range d.nodes[el.id].attrs {
		if d.nodes[a].name == name {
			d.nodes[a].value = value
			return Node{doc: d, id: a}, nil
		}
	}
	attr := d.alloc(AttributeNode, name, value)
	data := &d.nodes[el.id]
	d.nodes[attr.id].parent = el.id
	d.nodes[attr.id].index = int32(len(data.attrs))
	data.attrs = append(data.attrs, attr.id)
	return attr, nil
}

// AppendChild attaches a detached child as the last child of parent.
func (d *Document) AppendChild(parent, child Node) error {
	if parent.doc != d || child.doc != d {
		return ErrForeignNode
	}
	switch parent.Kind() {
	case RootNode, ElementNode:
	default:
		return errors.Wrapf(ErrInvalidParent, "append to %s", parent.Kind())
	}
	switch child.Kind() {
	case ElementNode, TextNode, CommentNode, ProcessingInstructionNode:
	default:
		return errors.Wrapf(ErrInvalidChild, "append %s", child.Kind())
	}
	if d.nodes[child.id].parent != noParent {
		return ErrAlreadyAttached
	}
	for id := parent.id; id != noParent; id = d.nodes[id].parent {
		if id == child.id {
			return ErrCycle
		}
	}

	data := &d.nodes[parent.id]
	d.nodes[child.id].parent = parent.id
	d.nodes[child.id].index = int32(len(data.children))
	data.children = append(data.children, child.id)
	return nil
}

// appendText appends text under parent, merging it into a trailing text
// node so that the tree never holds two adjacent text siblings.
func (d *Document) appendText(parent Node, text string) error {
	children := d.nodes[parent.id].children
	if n := len(children); n > 0 {
		last := children[n-1]
		if d.nodes[last].kind == TextNode {
			d.nodes[last].value += text
			return nil
		}
	}
	return d.AppendChild(parent, d.NewText(text))
}

// Node is a non-owning handle to a position in a Document. Handles are
// comparable with ==. The zero Node refers to nothing.
type Node struct {
	doc *Document
	id  int32
}

// IsZero reports whether n is the zero handle.
func (n Node) IsZero() bool {
	return n.doc == nil
}

func (n Node) data() *nodeData {
	return &n.doc.nodes[n.id]
}

// Index returns the arena index of n within its document. The root has
// index 0.
func (n Node) Index() int {
	return int(n.id)
}

// Document returns the document owning n.
func (n Node) Document() *Document {
	return n.doc
}

// Kind returns the node kind.
func (n Node) Kind() NodeKind {
	if n.doc == nil {
		return RootNode
	}
	return n.data().kind
}

// Name returns the qualified name of an element or attribute, or the target
// of a processing instruction. Other kinds have no name.
func (n Node) Name() string {
	if n.doc == nil {
		return ""
	}
	return n.data().name
}

// LocalName returns the part of Name after any namespace prefix.
func (n Node) LocalName() string {
	name := n.Name()
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Prefix returns the namespace prefix of Name, if any.
func (n Node) Prefix() string {
	name := n.Name()
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return ""
}

// Value returns the literal value held by attribute, text, comment and
// processing-instruction nodes.
func (n Node) Value() string {
	if n.doc == nil {
		return ""
	}
	return n.data().value
}

// StringValue returns the XPath string-value of the node: the concatenation
// of all descendant text for the root and elements, the node's own value
// otherwise.
func (n Node) StringValue() string {
	if n.doc == nil {
		return ""
	}
	switch n.Kind() {
	case RootNode, ElementNode:
		var sb strings.Builder
		n.collectText(&sb)
		return sb.String()
	default:
		return n.data().value
	}
}

func (n Node) collectText(sb *strings.Builder) {
	for _, c := range n.data().children {
		child := Node{doc: n.doc, id: c}
		switch child.Kind() {
		case TextNode:
			sb.WriteString(child.data().value)
		case ElementNode:
			child.collectText(sb)
		}
	}
}

// Parent returns the parent of n. The root and detached nodes have none.
// The parent of an attribute is the element carrying it.
func (n Node) Parent() (Node, bool) {
	if n.doc == nil {
		return Node{}, false
	}
	p := n.data().parent
	if p == noParent {
		return Node{}, false
	}
	return Node{doc: n.doc, id: p}, true
}

// Children returns the child nodes of n in document order.
func (n Node) Children() []Node {
	if n.doc == nil {
		return nil
	}
	return n.handles(n.data().children)
}

// Attributes returns the attribute nodes of an element in insertion order.
func (n Node) Attributes() []Node {
	if n.doc == nil {
		return nil
	}
	return n.handles(n.data().attrs)
}

// Attribute looks up an attribute by qualified name.
func (n Node) Attribute(name string) (Node, bool) {
	if n.doc == nil {
		return Node{}, false
	}
	for _, a := range n.data().attrs {
		if n.doc.nodes[a].name == name {
			return Node{doc: n.doc, id: a}, true
		}
	}
	return Node{}, false
}

func (n Node) handles(ids []int32) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{doc: n.doc, id: id}
	}
	return out
}

// Root returns the topmost ancestor of n (the document root for attached nodes).
func (n Node) Root() Node {
	for {
		p, ok := n.Parent()
		if !ok {
			return n
		}
		n = p
	}
}
