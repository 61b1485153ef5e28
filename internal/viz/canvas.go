package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// PixelMask returns the braille bit for sub-pixel (dx, dy) of a cell.
func PixelMask(dx, dy int) rune {
	return rune(pixelMap[dy][dx])
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels; y grows downward.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= PixelMask(x%2, y%4)
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&PixelMask(x%2, y%4) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Bounds is a world-coordinate window mapped onto a canvas.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FitBounds returns the smallest square window holding every point, padded
// by pad on each side. Square windows keep the XY path undistorted.
func FitBounds(xs, ys []float64, pad float64) Bounds {
	if len(xs) == 0 {
		return Bounds{-1, 1, -1, 1}
	}
	b := Bounds{xs[0], xs[0], ys[0], ys[0]}
	for i := range xs {
		b.MinX = math.Min(b.MinX, xs[i])
		b.MaxX = math.Max(b.MaxX, xs[i])
		b.MinY = math.Min(b.MinY, ys[i])
		b.MaxY = math.Max(b.MaxY, ys[i])
	}
	half := math.Max(b.MaxX-b.MinX, b.MaxY-b.MinY)/2 + pad
	if half <= 0 {
		half = 1
	}
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	return Bounds{cx - half, cx + half, cy - half, cy + half}
}

// ToPixel maps a world point to sub-pixel coordinates.
func (c *Canvas) ToPixel(x, y float64, b Bounds) (int, int) {
	w := float64(c.Width*2 - 1)
	h := float64(c.Height*4 - 1)
	px := (x - b.MinX) / (b.MaxX - b.MinX) * w
	py := (b.MaxY - y) / (b.MaxY - b.MinY) * h
	return int(math.Round(px)), int(math.Round(py))
}

// Plot draws the polyline through (xs[i], ys[i]).
func (c *Canvas) Plot(xs, ys []float64, b Bounds) {
	n := min(len(xs), len(ys))
	if n == 0 {
		return
	}
	px, py := c.ToPixel(xs[0], ys[0], b)
	c.Set(px, py)
	for i := 1; i < n; i++ {
		x, y := c.ToPixel(xs[i], ys[i], b)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
