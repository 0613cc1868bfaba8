package molecule

import (
	"strconv"
	"strings"

	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

var (
	ErrEmptyPayload       = errors.New(errors.ErrCodeValidation, "empty structure payload")
	ErrMissingCountsLine  = errors.New(errors.ErrCodeValidation, "molfile counts line not found")
	ErrUnsupportedVersion = errors.New(errors.ErrCodeValidation, "only V2000 molfiles are supported")
	ErrTruncatedBlock     = errors.New(errors.ErrCodeValidation, "molfile block is truncated")
)

const (
	sdfRecordEnd = "$$$$"
	molEnd       = "M  END"
	molCharge    = "M  CHG"
)

// ParseSDF reads the first record of an SDF (V2000 molfile) payload.  Header
// lines may be missing when the counts line carries the V2000 marker.
func ParseSDF(payload string) (*Molecule, error) {
	text := strings.ReplaceAll(payload, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPayload
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == sdfRecordEnd {
			lines = lines[:i]
			break
		}
	}

	ci := findCountsLine(lines)
	if ci < 0 {
		return nil, ErrMissingCountsLine
	}
	counts := lines[ci]
	if strings.Contains(counts, "V3000") {
		return nil, ErrUnsupportedVersion
	}

	m := &Molecule{}
	header := lines[:ci]
	if len(header) > 0 {
		m.Name = strings.TrimSpace(header[0])
	}
	if len(header) > 1 {
		m.Program = strings.TrimSpace(header[1])
	}
	if len(header) > 2 {
		m.Comment = strings.TrimSpace(header[2])
	}

	nAtoms, nBonds, err := parseCounts(counts)
	if err != nil {
		return nil, err
	}

	body := lines[ci+1:]
	if len(body) < nAtoms+nBonds {
		return nil, ErrTruncatedBlock.WithDetail(strconv.Itoa(len(body)) + " lines after counts")
	}

	m.Atoms = make([]Atom, 0, nAtoms)
	for i := 0; i < nAtoms; i++ {
		a, err := parseAtom(body[i])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "bad atom line").WithDetail(strconv.Itoa(i + 1))
		}
		m.Atoms = append(m.Atoms, a)
	}

	m.Bonds = make([]Bond, 0, nBonds)
	for i := 0; i < nBonds; i++ {
		b, err := parseBond(body[nAtoms+i], nAtoms)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "bad bond line").WithDetail(strconv.Itoa(i + 1))
		}
		m.Bonds = append(m.Bonds, b)
	}

	for _, l := range body[nAtoms+nBonds:] {
		if strings.HasPrefix(l, molEnd) {
			break
		}
		if strings.HasPrefix(l, molCharge) {
			applyCharges(m, l)
		}
	}
	return m, nil
}

// findCountsLine prefers an explicit V2000/V3000 marker within the first few
// lines and falls back to the fixed position after a three-line header.
func findCountsLine(lines []string) int {
	for i := 0; i < len(lines) && i < 6; i++ {
		if strings.HasSuffix(strings.TrimSpace(lines[i]), "V2000") || strings.HasSuffix(strings.TrimSpace(lines[i]), "V3000") {
			return i
		}
	}
	if len(lines) > 3 {
		if _, _, err := parseCounts(lines[3]); err == nil {
			return 3
		}
	}
	return -1
}

// column returns the trimmed fixed-width field [from, to) of line, or "" when
// the line is too short.
func column(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

func parseCounts(line string) (atoms, bonds int, err error) {
	atoms, err1 := strconv.Atoi(column(line, 0, 3))
	bonds, err2 := strconv.Atoi(column(line, 3, 6))
	if err1 == nil && err2 == nil && atoms >= 0 && bonds >= 0 {
		return atoms, bonds, nil
	}
	// Not column aligned; whitespace separated is common in generated text.
	f := strings.Fields(line)
	if len(f) < 2 {
		return 0, 0, ErrMissingCountsLine
	}
	if atoms, err = strconv.Atoi(f[0]); err != nil {
		return 0, 0, ErrMissingCountsLine.WithCause(err)
	}
	if bonds, err = strconv.Atoi(f[1]); err != nil {
		return 0, 0, ErrMissingCountsLine.WithCause(err)
	}
	if atoms < 0 || bonds < 0 {
		return 0, 0, ErrMissingCountsLine
	}
	return atoms, bonds, nil
}

func parseAtom(line string) (Atom, error) {
	x, errX := strconv.ParseFloat(column(line, 0, 10), 64)
	y, errY := strconv.ParseFloat(column(line, 10, 20), 64)
	z, errZ := strconv.ParseFloat(column(line, 20, 30), 64)
	el := column(line, 31, 34)
	if errX == nil && errY == nil && errZ == nil && el != "" {
		return Atom{Element: normaliseElement(el), X: x, Y: y, Z: z}, nil
	}

	f := strings.Fields(line)
	if len(f) < 4 {
		return Atom{}, ErrTruncatedBlock
	}
	var a Atom
	var err error
	if a.X, err = strconv.ParseFloat(f[0], 64); err != nil {
		return Atom{}, err
	}
	if a.Y, err = strconv.ParseFloat(f[1], 64); err != nil {
		return Atom{}, err
	}
	if a.Z, err = strconv.ParseFloat(f[2], 64); err != nil {
		return Atom{}, err
	}
	a.Element = normaliseElement(f[3])
	return a, nil
}

func parseBond(line string, nAtoms int) (Bond, error) {
	from, err1 := strconv.Atoi(column(line, 0, 3))
	to, err2 := strconv.Atoi(column(line, 3, 6))
	order, err3 := strconv.Atoi(column(line, 6, 9))
	if err1 != nil || err2 != nil || err3 != nil {
		f := strings.Fields(line)
		if len(f) < 3 {
			return Bond{}, ErrTruncatedBlock
		}
		var err error
		if from, err = strconv.Atoi(f[0]); err != nil {
			return Bond{}, err
		}
		if to, err = strconv.Atoi(f[1]); err != nil {
			return Bond{}, err
		}
		if order, err = strconv.Atoi(f[2]); err != nil {
			return Bond{}, err
		}
	}
	if from < 1 || from > nAtoms || to < 1 || to > nAtoms {
		return Bond{}, errors.Newf(errors.ErrCodeValidation, "bond references atom outside 1..%d", nAtoms)
	}
	return Bond{From: from - 1, To: to - 1, Order: order}, nil
}

// applyCharges reads "M  CHG  n aaa vvv ..." pairs.
func applyCharges(m *Molecule, line string) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return
	}
	for i := 3; i+1 < len(f); i += 2 {
		idx, err1 := strconv.Atoi(f[i])
		chg, err2 := strconv.Atoi(f[i+1])
		if err1 != nil || err2 != nil || idx < 1 || idx > len(m.Atoms) {
			continue
		}
		m.Atoms[idx-1].Charge = chg
	}
}

// normaliseElement upper-cases the first letter and lower-cases the rest,
// so "CL" and "cl" both read as "Cl".
func normaliseElement(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

//Personal.AI order the ending
