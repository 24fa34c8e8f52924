// ABOUTME: Maintenance of the iterator-derived linkedArrays list as links come and go.
// ABOUTME: Entries are inserted and removed at recorded positions so undo restores exact order.
package core

// LinkChange reports an iterator gaining or losing a linked array.
type LinkChange struct {
	IteratorID int
	Entry      LinkedArray
	Linked     bool
}

// linkedEdit records one linkedArrays mutation so it can be reversed.
type linkedEdit struct {
	iteratorID int
	entry      LinkedArray
	pos        int
}

// iteratorLink returns the iterator id and entry implied by c when one end is
// an iterator and the other is array-like.
func iteratorLink(shapes []Shape, c Connection) (int, LinkedArray, bool) {
	fi, ti := indexOfShape(shapes, c.From.ComponentID), indexOfShape(shapes, c.To.ComponentID)
	if fi < 0 || ti < 0 {
		return 0, LinkedArray{}, false
	}
	from, to := shapes[fi], shapes[ti]
	switch {
	case from.Kind() == KindIterator && to.Kind().ArrayLike():
		return from.ID, LinkedArray{ID: to.ID, Side: c.To.Side}, true
	case to.Kind() == KindIterator && from.Kind().ArrayLike():
		return to.ID, LinkedArray{ID: from.ID, Side: c.From.Side}, true
	}
	return 0, LinkedArray{}, false
}

// editIterator applies fn to a cloned copy of the iterator's body.
func editIterator(shapes []Shape, iteratorID int, fn func(*IteratorBody)) ([]Shape, bool) {
	i := indexOfShape(shapes, iteratorID)
	if i < 0 {
		return shapes, false
	}
	sh := shapes[i].Clone()
	body, ok := sh.Body.(*IteratorBody)
	if !ok {
		return shapes, false
	}
	fn(body)
	return replaceAt(shapes, i, sh), true
}

// insertLinked inserts entry at pos (appending when pos is out of range) and
// returns the position actually used.
func insertLinked(shapes []Shape, iteratorID int, entry LinkedArray, pos int) ([]Shape, int) {
	used := -1
	out, _ := editIterator(shapes, iteratorID, func(b *IteratorBody) {
		if pos < 0 || pos > len(b.LinkedArrays) {
			pos = len(b.LinkedArrays)
		}
		b.LinkedArrays = insertAt(b.LinkedArrays, pos, entry)
		used = pos
	})
	return out, used
}

// removeLinked removes one entry equal to entry, preferring the hinted
// position, and returns the position removed or -1.
func removeLinked(shapes []Shape, iteratorID int, entry LinkedArray, hint int) ([]Shape, int) {
	removed := -1
	out, _ := editIterator(shapes, iteratorID, func(b *IteratorBody) {
		idx := -1
		if hint >= 0 && hint < len(b.LinkedArrays) && b.LinkedArrays[hint] == entry {
			idx = hint
		} else {
			for i, e := range b.LinkedArrays {
				if e == entry {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return
		}
		b.LinkedArrays = removeAt(b.LinkedArrays, idx)
		removed = idx
	})
	if removed < 0 {
		return shapes, -1
	}
	return out, removed
}

// replaceLinked swaps old for repl in place and returns the position used.
func replaceLinked(shapes []Shape, iteratorID int, old, repl LinkedArray) ([]Shape, int) {
	used := -1
	out, _ := editIterator(shapes, iteratorID, func(b *IteratorBody) {
		for i, e := range b.LinkedArrays {
			if e == old {
				b.LinkedArrays[i] = repl
				used = i
				return
			}
		}
	})
	if used < 0 {
		return shapes, -1
	}
	return out, used
}
