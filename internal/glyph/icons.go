package glyph

import (
	"math"
	"sort"

	"github.com/gogpu/gg"
)

// icons maps icon ids to their outline on the design grid.
var icons = map[string]*gg.Path{
	"circle":   circleIcon(),
	"square":   squareIcon(),
	"diamond":  polygonIcon(4, 12, math.Pi/2),
	"triangle": polygonIcon(3, 13, math.Pi/2),
	"star":     starIcon(5, 13, 5.5),
	"cross":    crossIcon(),
	"pin":      pinIcon(),
	"flag":     flagIcon(),
}

// Icons returns the known icon ids in sorted order.
func Icons() []string {
	ids := make([]string, 0, len(icons))
	for id := range icons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func circleIcon() *gg.Path {
	p := gg.NewPath()
	p.Circle(GridSize/2, GridSize/2, 12)
	return p
}

func squareIcon() *gg.Path {
	p := gg.NewPath()
	p.Rectangle(5, 5, 22, 22)
	return p
}

// polygonIcon builds a regular polygon centred on the grid. The first vertex
// sits at angle start, measured with the y axis pointing down.
func polygonIcon(sides int, radius, start float64) *gg.Path {
	p := gg.NewPath()
	c := GridSize / 2
	for i := 0; i < sides; i++ {
		a := start + float64(i)*2*math.Pi/float64(sides)
		x, y := c+radius*math.Cos(a), c-radius*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
			continue
		}
		p.LineTo(x, y)
	}
	p.Close()
	return p
}

func starIcon(points int, outer, inner float64) *gg.Path {
	p := gg.NewPath()
	c := GridSize / 2
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi/2 + float64(i)*math.Pi/float64(points)
		x, y := c+r*math.Cos(a), c-r*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
			continue
		}
		p.LineTo(x, y)
	}
	p.Close()
	return p
}

func crossIcon() *gg.Path {
	p := gg.NewPath()
	p.MoveTo(12, 4)
	p.LineTo(20, 4)
	p.LineTo(20, 12)
	p.LineTo(28, 12)
	p.LineTo(28, 20)
	p.LineTo(20, 20)
	p.LineTo(20, 28)
	p.LineTo(12, 28)
	p.LineTo(12, 20)
	p.LineTo(4, 20)
	p.LineTo(4, 12)
	p.LineTo(12, 12)
	p.Close()
	return p
}

func pinIcon() *gg.Path {
	p := gg.NewPath()
	p.MoveTo(16, 30)
	p.CubicTo(16, 30, 6, 19, 6, 12)
	p.CubicTo(6, 6.5, 10.5, 2, 16, 2)
	p.CubicTo(21.5, 2, 26, 6.5, 26, 12)
	p.CubicTo(26, 19, 16, 30, 16, 30)
	p.Close()
	p.Circle(16, 12, 4)
	return p
}

func flagIcon() *gg.Path {
	p := gg.NewPath()
	p.Rectangle(7, 3, 2, 27)
	p.MoveTo(9, 4)
	p.LineTo(26, 9)
	p.LineTo(9, 15)
	p.Close()
	return p
}
