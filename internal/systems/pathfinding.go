package systems

import (
	"container/heap"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

// pathStepCost - стоимость шага между соседними гексами
const pathStepCost = 1

type pathNode struct {
	pos    domain.Hex
	g      int
	f      int
	seq    int // порядок вставки, стабилизирует выбор при равных f
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func heuristic(a, b domain.Hex) int {
	return a.DistanceTo(b) * pathStepCost
}

// FindPath ищет кратчайший путь по гексам (A*).
// Путь включает start и target. Пустой срез - пути нет, [start] - start == target.
// Занятые клетки непроходимы, кроме самой цели: так можно строить путь вплотную к занятому гексу.
func FindPath(g *domain.Grid, start, target domain.Hex) []domain.Hex {
	if g == nil || !g.Has(start) || !g.IsWalkable(target) {
		return []domain.Hex{}
	}
	if start == target {
		return []domain.Hex{start}
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{pos: start, g: 0, f: heuristic(start, target), seq: seq})
	gScore := map[domain.Hex]int{start: 0}
	closed := make(map[domain.Hex]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if _, seen := closed[current.pos]; seen {
			continue
		}
		closed[current.pos] = struct{}{}
		if current.pos == target {
			return reconstructPath(current)
		}

		for _, next := range current.pos.Neighbors() {
			tile := g.Tile(next)
			if tile == nil || !tile.IsWalkable() {
				continue
			}
			if tile.IsOccupied() && next != target {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			tentativeG := current.g + pathStepCost
			if prev, ok := gScore[next]; ok && tentativeG >= prev {
				continue
			}
			gScore[next] = tentativeG
			seq++
			heap.Push(open, &pathNode{
				pos:    next,
				g:      tentativeG,
				f:      tentativeG + heuristic(next, target),
				seq:    seq,
				parent: current,
			})
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "pathfinding",
		"start":     start.String(),
		"target":    target.String(),
		"explored":  len(closed),
	}).Debug("No path found.")
	return []domain.Hex{}
}

func reconstructPath(end *pathNode) []domain.Hex {
	path := make([]domain.Hex, 0, end.g+1)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.pos)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}
