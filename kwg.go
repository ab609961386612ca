// kwg.go
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the lexicon automaton (KWG, C5): a flat array of
// packed 32-bit nodes, with both a DAWG root (plain left-to-right word
// recognition) and a gaddag root (reversed-then-forward spellings, used
// to anchor move generation at any placed tile, §3 Data Model).
//
// Node packing and on-disk layout follow §3 and §6 exactly. The
// traversal primitives (iterateSiblings, FindWord, WordIndex, CrossSet)
// are generalized from
// the teacher's dawg.go/navigators.go byte-offset design onto flat
// uint32 node indices.

package skrafl

import (
	"encoding/binary"
	"io"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const (
	tileBits       = 6
	acceptsBit     = 1 << tileBits       // bit 6
	lastSiblingBit = 1 << (tileBits + 1) // bit 7
	arcIndexShift  = 8
	arcIndexMask   = 0x3FFFFF // 22 bits
)

// node accessors, operating on the packed 32-bit word (§3).

func nodeTile(n uint32) Tile        { return Tile(n & (1<<tileBits - 1)) }
func nodeAccepts(n uint32) bool     { return n&acceptsBit != 0 }
func nodeIsLastSibling(n uint32) bool { return n&lastSiblingBit != 0 }
func nodeArcIndex(n uint32) uint32  { return (n >> arcIndexShift) & arcIndexMask }

func packNode(tile Tile, accepts, isLast bool, arc uint32) uint32 {
	n := uint32(tile) & (1<<tileBits - 1)
	if accepts {
		n |= acceptsBit
	}
	if isLast {
		n |= lastSiblingBit
	}
	n |= (arc & arcIndexMask) << arcIndexShift
	return n
}

// ErrLexiconParse is the root cause for a malformed lexicon/leave file.
var ErrLexiconParse = errors.New("malformed lexicon file")

// Kwg is the immutable lexicon automaton. Two roots share one node
// array: DawgRoot for forward word recognition, GaddagRoot for anchored
// generation.
type Kwg struct {
	nodes      []uint32
	DawgRoot   uint32
	GaddagRoot uint32

	subtreeCache []int // memoized per-node accepting-word subtree counts

	crossCache *lru.Cache[crossKey, uint64]
}

// crossKey identifies a cross-set memoization entry (§4.1's CrossSet).
type crossKey struct {
	left, right string
}

// NewKwg wraps a raw node array with the two given roots.
func NewKwg(nodes []uint32, dawgRoot, gaddagRoot uint32) *Kwg {
	c, _ := lru.New[crossKey, uint64](2048)
	k := &Kwg{
		nodes:        nodes,
		DawgRoot:     dawgRoot,
		GaddagRoot:   gaddagRoot,
		subtreeCache: make([]int, len(nodes)+1),
		crossCache:   c,
	}
	for i := range k.subtreeCache {
		k.subtreeCache[i] = -1
	}
	return k
}

// LoadKwg reads the binary lexicon format of §6: a little-endian
// num_nodes prefix followed by num_nodes packed 32-bit words. The first
// two nodes' arc indices are, by convention, the DAWG root and gaddag
// root arc pointers.
func LoadKwg(r io.Reader) (*Kwg, error) {
	var numNodes uint32
	if err := binary.Read(r, binary.LittleEndian, &numNodes); err != nil {
		return nil, errors.Wrap(err, "reading kwg header")
	}
	nodes := make([]uint32, numNodes)
	if err := binary.Read(r, binary.LittleEndian, &nodes); err != nil {
		return nil, errors.Wrap(err, "reading kwg node array")
	}
	if numNodes < 2 {
		return nil, errors.Wrap(ErrLexiconParse, "kwg has fewer than 2 nodes")
	}
	dawgRoot := nodeArcIndex(nodes[0])
	gaddagRoot := nodeArcIndex(nodes[1])
	return NewKwg(nodes, dawgRoot, gaddagRoot), nil
}

// subtreeCount returns the number of accepting words reachable through
// the sibling chain starting at node index i (including i's own
// children), memoized because the automaton is acyclic (§4.1).
func (k *Kwg) subtreeCount(i uint32) int {
	if i == 0 {
		return 0
	}
	if k.subtreeCache[i] >= 0 {
		return k.subtreeCache[i]
	}
	total := 0
	idx := i
	for {
		n := k.nodes[idx]
		if nodeAccepts(n) {
			total++
		}
		if arc := nodeArcIndex(n); arc != 0 {
			total += k.subtreeCount(arc)
		}
		if nodeIsLastSibling(n) {
			break
		}
		idx++
	}
	k.subtreeCache[i] = total
	return total
}

// iterateSiblings scans the sibling chain starting at i for an edge
// labeled tile. It returns the child arc index, whether that edge
// accepts, the cumulative word_index of accepting words skipped over
// lexicographically before the match, and whether a match was found.
func (k *Kwg) iterateSiblings(i uint32, tile Tile) (child uint32, accepts bool, wordsBefore int, found bool) {
	idx := i
	for {
		n := k.nodes[idx]
		nt := nodeTile(n)
		if nt == tile {
			return nodeArcIndex(n), nodeAccepts(n), wordsBefore, true
		}
		if nt < tile {
			if nodeAccepts(n) {
				wordsBefore++
			}
			wordsBefore += k.subtreeCount(nodeArcIndex(n))
		}
		if nodeIsLastSibling(n) {
			return 0, false, wordsBefore, false
		}
		idx++
	}
}

// FindWord reports whether word is accepted starting from root.
func (k *Kwg) FindWord(root uint32, word []Tile) bool {
	cur := root
	for i, t := range word {
		child, accepts, _, found := k.iterateSiblings(cur, t)
		if !found {
			return false
		}
		if i == len(word)-1 {
			return accepts
		}
		if child == 0 {
			return false
		}
		cur = child
	}
	return false
}

// WordIndex returns the KLV word index for word (assumed sorted
// ascending, blank last per rack canonical order), or ok=false if the
// word is not accepted (§4.1).
func (k *Kwg) WordIndex(root uint32, word []Tile) (index int, ok bool) {
	cur := root
	wi := 0
	for i, t := range word {
		child, accepts, before, found := k.iterateSiblings(cur, t)
		if !found {
			return 0, false
		}
		wi += before
		if accepts {
			if i == len(word)-1 {
				return wi, true
			}
			wi++
		}
		if i == len(word)-1 {
			return 0, false
		}
		if child == 0 {
			return 0, false
		}
		cur = child
	}
	return 0, false
}

// Match reports whether any word accepted from root matches pattern,
// where any occurrence of the wildcard tile in pattern matches any
// single tile. CrossSet does not call it; it tests each candidate tile
// with FindWord.
func (k *Kwg) Match(root uint32, pattern []Tile, wildcard Tile) bool {
	var rec func(node uint32, pos int) bool
	rec = func(cur uint32, pos int) bool {
		if pos == len(pattern) {
			return false
		}
		want := pattern[pos]
		idx := cur
		for {
			n := k.nodes[idx]
			nt := nodeTile(n)
			if want == wildcard || nt == want {
				last := pos == len(pattern)-1
				if last {
					if nodeAccepts(n) {
						return true
					}
				} else if arc := nodeArcIndex(n); arc != 0 {
					if rec(arc, pos+1) {
						return true
					}
				}
				if want != wildcard {
					return false
				}
			}
			if nodeIsLastSibling(n) {
				return false
			}
			idx++
		}
	}
	return rec(root, 0)
}

// CrossSet computes, for a square with left and right placed-letter
// context (left read left-to-right ending at the square, right read
// left-to-right starting after the square), the set of tile values that
// may legally fill the square so the perpendicular word validates
// (§4.2). Results are memoized per (left,right) pair.
func (k *Kwg) CrossSet(left, right []Tile, alphabetSize int) uint64 {
	key := crossKey{left: tilesKey(left), right: tilesKey(right)}
	if v, ok := k.crossCache.Get(key); ok {
		return v
	}
	var set uint64
	for t := 1; t < alphabetSize; t++ {
		pattern := make([]Tile, 0, len(left)+1+len(right))
		pattern = append(pattern, left...)
		pattern = append(pattern, Tile(t))
		pattern = append(pattern, right...)
		if k.FindWord(k.DawgRoot, pattern) {
			set |= 1 << uint(t)
		}
	}
	k.crossCache.Add(key, set)
	return set
}

func tilesKey(tiles []Tile) string {
	b := make([]byte, len(tiles))
	for i, t := range tiles {
		b[i] = byte(t)
	}
	return string(b)
}

// BuildDawg constructs an (unminimized but behaviorally correct) DAWG
// from a word list, sufficient for tests and small fixture lexicons.
// Real lexicon files are loaded via LoadKwg; this is the in-memory
// constructor used when no resource file is available.
func BuildDawg(words [][]Tile) *Kwg {
	sorted := make([][]Tile, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return tilesLess(sorted[i], sorted[j]) })

	var nodes []uint32
	// node 0 and 1 are reserved header nodes whose arc index fields
	// point at the real roots, matching LoadKwg's convention.
	nodes = append(nodes, 0, 0)

	type trieNode struct {
		children map[Tile]*trieNode
		order    []Tile
		accepts  bool
	}
	newTrie := func() *trieNode { return &trieNode{children: map[Tile]*trieNode{}} }
	root := newTrie()
	for _, w := range sorted {
		cur := root
		for _, t := range w {
			child, ok := cur.children[t]
			if !ok {
				child = newTrie()
				cur.children[t] = child
				cur.order = append(cur.order, t)
			}
			cur = child
		}
		cur.accepts = true
	}
	sort.Slice(root.order, func(i, j int) bool { return root.order[i] < root.order[j] })

	var emit func(n *trieNode) uint32
	emit = func(n *trieNode) uint32 {
		if len(n.order) == 0 {
			return 0
		}
		sort.Slice(n.order, func(i, j int) bool { return n.order[i] < n.order[j] })
		start := uint32(len(nodes))
		nodes = append(nodes, make([]uint32, len(n.order))...)
		for i, t := range n.order {
			child := n.children[t]
			arc := emit(child)
			nodes[int(start)+i] = packNode(t, child.accepts, i == len(n.order)-1, arc)
		}
		return start
	}
	dawgRoot := emit(root)
	nodes[0] = packNode(0, false, true, dawgRoot)
	nodes[1] = packNode(0, false, true, dawgRoot) // gaddag root: same shape for the in-memory test builder
	return NewKwg(nodes, dawgRoot, dawgRoot)
}

// tilize converts a string of digit glyphs '0'..'9' into tiles, used by
// small synthetic fixture words (tests) and by NewKlvFromLeaves, which
// keys its in-memory leave table the same way.
func tilize(s string) []Tile {
	out := make([]Tile, len(s))
	for i, c := range s {
		out[i] = Tile(c - '0')
	}
	return out
}

func tilesLess(a, b []Tile) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
