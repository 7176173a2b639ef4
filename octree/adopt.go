// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package octree

import (
	"fmt"

	"github.com/racetrace/racetrace/geom"
)

// AdoptChild attaches an already-constructed node as child i, updating
// its parent back-reference and index-in-parent. Used only by outside
// growth, which must re-parent the existing absolute root under a
// freshly created, larger one rather than build a new subtree from
// scratch. Errors if slot i is occupied or child's dimension does not
// match the canonical child dimension for slot i.
func (n *Node) AdoptChild(i int, child *Node) error {
	checkIndex("AdoptChild", i)
	if !n.children[i].IsEmpty() {
		return fmt.Errorf("octree: AdoptChild: slot %d already occupied", i)
	}
	want := canonicalChildDim(n.id, i)
	if !want.Pos.Eq(child.id.Pos) || !geom.Aeq(want.Size, child.id.Size) {
		return fmt.Errorf("octree: AdoptChild: child dimension mismatch at slot %d: want %+v, got %+v", i, want, child.id)
	}
	child.parent = n
	child.indexInParent = int8(i)
	n.children[i] = Child{kind: kindSubtree, node: child}
	return nil
}
