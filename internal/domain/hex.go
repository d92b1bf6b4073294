package domain

import "fmt"

// Hex - координата гекса в осевой системе (q, r).
// Третья кубическая координата вычисляется: s = -q - r.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Directions - шесть соседей гекса, порядок фиксирован (используется для tie-break в ИИ).
var Directions = [6]Hex{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

func NewHex(q, r int) Hex {
	return Hex{Q: q, R: r}
}

// S возвращает третью кубическую координату
func (h Hex) S() int {
	return -h.Q - h.R
}

func (h Hex) Add(o Hex) Hex {
	return Hex{Q: h.Q + o.Q, R: h.R + o.R}
}

func (h Hex) Sub(o Hex) Hex {
	return Hex{Q: h.Q - o.Q, R: h.R - o.R}
}

// DistanceTo - число шагов между гексами
func (h Hex) DistanceTo(o Hex) int {
	d := h.Sub(o)
	return (abs(d.Q) + abs(d.R) + abs(d.S())) / 2
}

// Neighbor возвращает соседа по индексу направления (0..5)
func (h Hex) Neighbor(dir int) Hex {
	return h.Add(Directions[((dir%6)+6)%6])
}

// Neighbors возвращает всех шестерых соседей в порядке Directions
func (h Hex) Neighbors() []Hex {
	out := make([]Hex, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, h.Add(d))
	}
	return out
}

// IsAdjacent - true, если гексы соседние
func (h Hex) IsAdjacent(o Hex) bool {
	return h.DistanceTo(o) == 1
}

func (h Hex) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
