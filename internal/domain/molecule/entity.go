// Package molecule models a parsed molecular structure: atoms with 3D
// coordinates and the bonds between them.
package molecule

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Atom is one atom of a structure.
type Atom struct {
	Element string
	X, Y, Z float64
	Charge  int
}

// Bond joins two atoms by zero-based index.  Order is 1, 2 or 3 for
// single/double/triple and 4 for aromatic.
type Bond struct {
	From, To int
	Order    int
}

// Molecule is a parsed structure record.
type Molecule struct {
	Name    string
	Program string
	Comment string
	Atoms   []Atom
	Bonds   []Bond
}

// IsEmpty reports whether the molecule has no atoms.
func (m *Molecule) IsEmpty() bool {
	return m == nil || len(m.Atoms) == 0
}

// Formula returns the explicit-atom formula in Hill order: carbon, then
// hydrogen, then the rest alphabetically.  Without carbon every element is
// alphabetical.
func (m *Molecule) Formula() string {
	if m.IsEmpty() {
		return ""
	}
	counts := make(map[string]int)
	for _, a := range m.Atoms {
		counts[a.Element]++
	}

	var order []string
	_, hasCarbon := counts["C"]
	if hasCarbon {
		order = append(order, "C")
		if _, ok := counts["H"]; ok {
			order = append(order, "H")
		}
	}
	var rest []string
	for el := range counts {
		if hasCarbon && (el == "C" || el == "H") {
			continue
		}
		rest = append(rest, el)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var b strings.Builder
	for _, el := range order {
		b.WriteString(el)
		if n := counts[el]; n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	return b.String()
}

// Centroid is the mean atom position.
func (m *Molecule) Centroid() [3]float64 {
	var c [3]float64
	if m.IsEmpty() {
		return c
	}
	for _, a := range m.Atoms {
		c[0] += a.X
		c[1] += a.Y
		c[2] += a.Z
	}
	n := float64(len(m.Atoms))
	return [3]float64{c[0] / n, c[1] / n, c[2] / n}
}

// BoundingRadius is the largest atom distance from the centroid.
func (m *Molecule) BoundingRadius() float64 {
	if m.IsEmpty() {
		return 0
	}
	c := m.Centroid()
	var r float64
	for _, a := range m.Atoms {
		dx, dy, dz := a.X-c[0], a.Y-c[1], a.Z-c[2]
		r = math.Max(r, math.Sqrt(dx*dx+dy*dy+dz*dz))
	}
	return r
}

//Personal.AI order the ending
