// ABOUTME: Eight-directional A* search over a bounded grid of cells.
// ABOUTME: Axis steps cost 1, diagonals sqrt(2), with a Euclidean heuristic and an expansion cap.
package route

import (
	"container/heap"
	"errors"
	"math"
)

var (
	// ErrNoPath indicates the goal is unreachable within the grid window.
	ErrNoPath = errors.New("no path found")

	// ErrExpansionLimit indicates the search gave up after too many expansions.
	ErrExpansionLimit = errors.New("path search exceeded expansion limit")
)

// DefaultMaxExpansions bounds the work a single search may do.
const DefaultMaxExpansions = 10000

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is the search space: an inclusive cell window and a blocked predicate.
type Grid struct {
	Min, Max Cell
	Blocked  func(Cell) bool
}

func (g Grid) contains(c Cell) bool {
	return c.X >= g.Min.X && c.X <= g.Max.X && c.Y >= g.Min.Y && c.Y <= g.Max.Y
}

var neighborSteps = [8]Cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

type searchNode struct {
	cell   Cell
	g, h   float64
	parent *searchNode
	index  int
}

func (n *searchNode) f() float64 { return n.g + n.h }

// openSet orders nodes by total cost, then by remaining estimate.
type openSet []*searchNode

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if fi, fj := o[i].f(), o[j].f(); fi != fj {
		return fi < fj
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	if o[i].cell.Y != o[j].cell.Y {
		return o[i].cell.Y < o[j].cell.Y
	}
	return o[i].cell.X < o[j].cell.X
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openSet) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*o = old[:len(old)-1]
	return n
}

func heuristic(a, b Cell) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// FindPath returns the cells from start to goal inclusive. The start and
// goal cells are never treated as blocked.
func FindPath(g Grid, start, goal Cell, maxExpansions int) ([]Cell, error) {
	if start == goal {
		return []Cell{start}, nil
	}
	if maxExpansions <= 0 {
		maxExpansions = DefaultMaxExpansions
	}
	blocked := func(c Cell) bool {
		if c == start || c == goal {
			return false
		}
		return !g.contains(c) || (g.Blocked != nil && g.Blocked(c))
	}

	open := &openSet{}
	nodes := map[Cell]*searchNode{}
	closed := map[Cell]bool{}

	startNode := &searchNode{cell: start, h: heuristic(start, goal)}
	heap.Push(open, startNode)
	nodes[start] = startNode

	expansions := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if current.cell == goal {
			return reconstruct(current), nil
		}
		expansions++
		if expansions > maxExpansions {
			return nil, ErrExpansionLimit
		}
		closed[current.cell] = true

		for _, step := range neighborSteps {
			next := Cell{current.cell.X + step.X, current.cell.Y + step.Y}
			if closed[next] || blocked(next) {
				continue
			}
			cost := 1.0
			if step.X != 0 && step.Y != 0 {
				cost = math.Sqrt2
			}
			tentative := current.g + cost

			node, seen := nodes[next]
			if !seen {
				node = &searchNode{cell: next, g: tentative, h: heuristic(next, goal), parent: current}
				nodes[next] = node
				heap.Push(open, node)
				continue
			}
			if tentative < node.g {
				node.g = tentative
				node.parent = current
				heap.Fix(open, node.index)
			}
		}
	}
	return nil, ErrNoPath
}

func reconstruct(n *searchNode) []Cell {
	var out []Cell
	for ; n != nil; n = n.parent {
		out = append(out, n.cell)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
