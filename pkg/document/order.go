package document

import (
	"cmp"
	"fmt"
	"strings"
)

// Compare orders two nodes in document order: it returns -1 when a comes
// before b, 1 when it comes after and 0 when they are the same node.
//
// Document order is a pre-order traversal where an element precedes its
// attributes and its attributes precede its children. Nodes of different
// documents are ordered by document creation.
func Compare(a, b Node) int {
	if a == b {
		return 0
	}
	if a.doc != b.doc {
		return cmp.Compare(seqOf(a), seqOf(b))
	}

	pa := a.lineage()
	pb := b.lineage()

	// Different tops only happen for detached subtrees.
	if pa[0] != pb[0] {
		return cmp.Compare(pa[0], pb[0])
	}

	i := 1
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return -1 // a is an ancestor of b
	case i == len(pb):
		return 1
	}
	return compareSiblings(a.doc, pa[i], pb[i])
}

func seqOf(n Node) uint64 {
	if n.doc == nil {
		return 0
	}
	return n.doc.seq
}

// compareSiblings orders two distinct nodes sharing a parent.
func compareSiblings(d *Document, x, y int32) int {
	xa := d.nodes[x].kind == AttributeNode
	ya := d.nodes[y].kind == AttributeNode
	if xa != ya {
		if xa {
			return -1
		}
		return 1
	}
	return cmp.Compare(d.nodes[x].index, d.nodes[y].index)
}

// lineage returns the arena indices from the topmost ancestor down to n.
func (n Node) lineage() []int32 {
	var ids []int32
	for id := n.id; id != noParent; id = n.doc.nodes[id].parent {
		ids = append(ids, id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// Path returns an absolute location path identifying n, such as
// /catalog[1]/book[2]/@id. Steps use positions among same-named siblings.
func (n Node) Path() string {
	if n.doc == nil {
		return ""
	}
	if n.Kind() == RootNode {
		return "/"
	}
	var steps []string
	for cur := n; ; {
		parent, ok := cur.Parent()
		if !ok {
			if cur.Kind() != RootNode {
				steps = append(steps, "(detached)")
			}
			break
		}
		steps = append(steps, cur.step(parent))
		cur = parent
	}
	var sb strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i] != "(detached)" {
			sb.WriteByte('/')
		}
		sb.WriteString(steps[i])
	}
	return sb.String()
}

func (n Node) step(parent Node) string {
	data := n.data()
	if data.kind == AttributeNode {
		return "@" + data.name
	}

	var test string
	switch data.kind {
	case ElementNode:
		test = data.name
	case TextNode:
		test = "text()"
	case CommentNode:
		test = "comment()"
	case ProcessingInstructionNode:
		test = fmt.Sprintf("processing-instruction('%s')", data.name)
	}

	pos := 0
	for _, c := range parent.data().children {
		sib := &n.doc.nodes[c]
		if sib.kind == data.kind && sib.name == data.name {
			pos++
		}
		if c == n.id {
			break
		}
	}
	return fmt.Sprintf("%s[%d]", test, pos)
}

// String implements fmt.Stringer.
func (n Node) String() string {
	if n.doc == nil {
		return "(zero node)"
	}
	return n.Kind().String() + " " + n.Path()
}
