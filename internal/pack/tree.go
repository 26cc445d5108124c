// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pack

import "fmt"

const (
	MaxLevels = 24
	maxLeaves = 256 // byte leaves, not counting EOF
)

// Level lists the byte leaves found at one depth of the tree,
// shallowest level first.
type Level struct {
	Leaves []byte
}

type nodeKind uint8

const (
	branch nodeKind = iota
	leaf
	eof
)

type node struct {
	kind  nodeKind
	sym   byte     // leaf only
	child [2]*node // branch only: the 0 and 1 sides
	n     int      // children attached so far, while building
}

// Tree is a decoding tree for one packed payload. It is not modified after
// BuildTree returns.
type Tree struct {
	root *node
}

// slot is one entry in a level's list: a leaf, or a placeholder (open) for
// an internal node whose children come from the level below.
type slot struct {
	open bool
	kind nodeKind
	sym  byte
}

// BuildTree reconstructs the tree from its level table.
//
// Every internal node at one depth has two children at the next. The pending
// internal node count therefore doubles from level to level, less the leaves
// placed there. At each level the internal nodes come before the leaves, and
// the last level also holds the EOF leaf, after the byte leaves.
func BuildTree(levels []Level) (*Tree, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: empty level table", ErrFormat)
	} else if len(levels) > MaxLevels {
		return nil, fmt.Errorf("%w: %d levels", ErrFormat, len(levels))
	}

	slots := make([][]slot, len(levels))
	nonleaf, total := 1, 0
	for i, lv := range levels {
		total += len(lv.Leaves)
		if total > maxLeaves {
			return nil, fmt.Errorf("%w: more than %d leaves", ErrFormat, maxLeaves)
		}
		nonleaf = 2*nonleaf - len(lv.Leaves)

		if i == len(levels)-1 {
			// the EOF leaf is the one internal node not yet accounted for
			if nonleaf != 1 {
				return nil, fmt.Errorf("%w: level table leaves %d open nodes", ErrFormat, nonleaf)
			}
			for _, b := range lv.Leaves {
				slots[i] = append(slots[i], slot{kind: leaf, sym: b})
			}
			slots[i] = append(slots[i], slot{kind: eof})
		} else {
			if nonleaf < 0 {
				return nil, fmt.Errorf("%w: level %d has too many leaves", ErrFormat, i+1)
			}
			for range nonleaf {
				slots[i] = append(slots[i], slot{open: true})
			}
			for _, b := range lv.Leaves {
				slots[i] = append(slots[i], slot{kind: leaf, sym: b})
			}
		}
	}

	// Breadth-first: the top of the stack is the open node at depth
	// len(stack)-1, and its children are taken from that level's list.
	root := &node{kind: branch}
	stack := []*node{root}
	progress := make([]int, len(levels))
	for len(stack) > 0 {
		depth := len(stack) - 1
		if depth >= len(levels) || progress[depth] >= len(slots[depth]) {
			return nil, fmt.Errorf("%w: level table is inconsistent", ErrFormat)
		}
		s := slots[depth][progress[depth]]
		progress[depth]++

		parent := stack[len(stack)-1]
		child := &node{kind: s.kind, sym: s.sym}
		parent.child[parent.n] = child
		parent.n++
		if s.open {
			stack = append(stack, child)
		}
		for len(stack) > 0 && stack[len(stack)-1].n == 2 {
			stack = stack[:len(stack)-1]
		}
	}
	return &Tree{root: root}, nil
}
