package heuristic

import (
	"fmt"
	"strings"
	"unicode"

	"gobioact/domain/core"
)

// bondAromatic marks an aromatic bond; other orders are literal
const bondAromatic = 4

type atom struct {
	element  string
	aromatic bool
	bracket  bool
	hydrogen int // explicit for bracket atoms, implicit otherwise
	charge   int
	bonds    []bond
}

type bond struct {
	to    int
	order int
}

// bondSum counts aromatic bonds as single
func (a *atom) bondSum() int {
	total := 0
	for _, b := range a.bonds {
		if b.order == bondAromatic {
			total++
		} else {
			total += b.order
		}
	}
	return total
}

type ringOpen struct {
	atom  int
	order int
}

// graph is the parsed molecular graph
type graph struct {
	atoms []atom
}

func parseError(structure, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %q: %s", core.ErrStructureParse, structure, fmt.Sprintf(format, args...))
}

// parseSMILES reads a SMILES string into a graph. Stereo marks are accepted and
// ignored.
func parseSMILES(s string) (*graph, error) {
	if strings.TrimSpace(s) == "" {
		return nil, parseError(s, "empty structure")
	}

	g := &graph{}
	prev := -1
	pending := 0
	var branches []int
	rings := make(map[int]ringOpen)

	connect := func(idx int) {
		if prev >= 0 {
			order := pending
			if order == 0 {
				order = g.defaultOrder(prev, idx)
			}
			g.addBond(prev, idx, order)
		}
		prev = idx
		pending = 0
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, parseError(s, "branch without a preceding atom at %d", i)
			}
			branches = append(branches, prev)
			i++
		case c == ')':
			if len(branches) == 0 {
				return nil, parseError(s, "unbalanced ')' at %d", i)
			}
			if pending != 0 {
				return nil, parseError(s, "dangling bond at %d", i)
			}
			prev = branches[len(branches)-1]
			branches = branches[:len(branches)-1]
			i++
		case c == '-' || c == '/' || c == '\\':
			pending = 1
			i++
		case c == '=':
			pending = 2
			i++
		case c == '#':
			pending = 3
			i++
		case c == ':':
			pending = bondAromatic
			i++
		case c == '.':
			if pending != 0 {
				return nil, parseError(s, "dangling bond at %d", i)
			}
			prev = -1
			i++
		case c == '%' || (c >= '0' && c <= '9'):
			if prev < 0 {
				return nil, parseError(s, "ring closure without an atom at %d", i)
			}
			num, next, err := ringNumber(s, i)
			if err != nil {
				return nil, err
			}
			if open, ok := rings[num]; ok {
				if open.atom == prev {
					return nil, parseError(s, "ring %d closes on itself", num)
				}
				order := pending
				if order == 0 {
					order = open.order
				}
				if order == 0 {
					order = g.defaultOrder(open.atom, prev)
				}
				g.addBond(open.atom, prev, order)
				delete(rings, num)
			} else {
				rings[num] = ringOpen{atom: prev, order: pending}
			}
			pending = 0
			i = next
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, parseError(s, "unterminated bracket atom at %d", i)
			}
			a, err := parseBracket(s, s[i+1:i+end])
			if err != nil {
				return nil, err
			}
			g.atoms = append(g.atoms, a)
			connect(len(g.atoms) - 1)
			i += end + 1
		default:
			a, width, err := parseOrganic(s, i)
			if err != nil {
				return nil, err
			}
			g.atoms = append(g.atoms, a)
			connect(len(g.atoms) - 1)
			i += width
		}
	}

	switch {
	case len(g.atoms) == 0:
		return nil, parseError(s, "no atoms")
	case len(branches) > 0:
		return nil, parseError(s, "unbalanced '('")
	case len(rings) > 0:
		return nil, parseError(s, "unclosed ring")
	case pending != 0:
		return nil, parseError(s, "dangling bond at end")
	}

	g.fillImplicitHydrogens()
	return g, nil
}

func ringNumber(s string, i int) (int, int, error) {
	if s[i] != '%' {
		return int(s[i] - '0'), i + 1, nil
	}
	if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
		return 0, 0, parseError(s, "malformed ring number at %d", i)
	}
	return int(s[i+1]-'0')*10 + int(s[i+2]-'0'), i + 3, nil
}

func parseOrganic(s string, i int) (atom, int, error) {
	if i+1 < len(s) {
		switch s[i : i+2] {
		case "Cl", "Br":
			return atom{element: s[i : i+2]}, 2, nil
		}
	}
	sym := s[i : i+1]
	if _, ok := defaultValences[sym]; ok {
		return atom{element: sym}, 1, nil
	}
	if el, ok := aromaticSymbols[sym]; ok {
		return atom{element: el, aromatic: true}, 1, nil
	}
	return atom{}, 0, parseError(s, "unexpected character %q at %d", sym, i)
}

// parseBracket reads [isotope? symbol chiral? hcount? charge? class?]
func parseBracket(structure, body string) (atom, error) {
	i := 0
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i >= len(body) {
		return atom{}, parseError(structure, "bracket atom without element")
	}

	a := atom{bracket: true}
	switch c := rune(body[i]); {
	case unicode.IsLower(c):
		if i+1 < len(body) {
			if el, ok := aromaticSymbols[body[i:i+2]]; ok {
				a.element, a.aromatic = el, true
				i += 2
				break
			}
		}
		el, ok := aromaticSymbols[body[i:i+1]]
		if !ok {
			return atom{}, parseError(structure, "unknown aromatic element %q", body[i:i+1])
		}
		a.element, a.aromatic = el, true
		i++
	case unicode.IsUpper(c):
		if i+1 < len(body) && unicode.IsLower(rune(body[i+1])) {
			if _, ok := atomicWeights[body[i:i+2]]; ok {
				a.element = body[i : i+2]
				i += 2
				break
			}
		}
		if _, ok := atomicWeights[body[i:i+1]]; !ok {
			return atom{}, parseError(structure, "unknown element %q", body[i:i+1])
		}
		a.element = body[i : i+1]
		i++
	default:
		return atom{}, parseError(structure, "bracket atom without element")
	}

	// chirality: @, @@ and extended forms such as @TH1
	for i < len(body) && body[i] == '@' {
		i++
		if i+2 < len(body) && chiralClasses[body[i:i+2]] && isDigit(body[i+2]) {
			i += 2
			for i < len(body) && isDigit(body[i]) {
				i++
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.hydrogen = 1
		if i < len(body) && isDigit(body[i]) {
			a.hydrogen = int(body[i] - '0')
			i++
		}
	}

	for i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		i++
		if i < len(body) && isDigit(body[i]) {
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			a.charge += sign * n
		} else {
			a.charge += sign
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		for i < len(body) && isDigit(body[i]) {
			i++
		}
	}
	if i != len(body) {
		return atom{}, parseError(structure, "unexpected %q in bracket atom", body[i:])
	}
	return a, nil
}

func (g *graph) defaultOrder(a, b int) int {
	if g.atoms[a].aromatic && g.atoms[b].aromatic {
		return bondAromatic
	}
	return 1
}

func (g *graph) addBond(a, b, order int) {
	g.atoms[a].bonds = append(g.atoms[a].bonds, bond{to: b, order: order})
	g.atoms[b].bonds = append(g.atoms[b].bonds, bond{to: a, order: order})
}

// fillImplicitHydrogens applies the organic-subset valence rules. Aromatic
// carbon completes a three-connected aromatic valence; other aromatic atoms
// carry no implicit hydrogens and pyrrole-type NH must be written [nH].
func (g *graph) fillImplicitHydrogens() {
	for i := range g.atoms {
		a := &g.atoms[i]
		if a.bracket {
			continue
		}
		used := a.bondSum()
		if a.aromatic {
			if a.element == "C" && used < 3 {
				a.hydrogen = 3 - used
			}
			continue
		}
		for _, v := range defaultValences[a.element] {
			if v >= used {
				a.hydrogen = v - used
				break
			}
		}
	}
}

var chiralClasses = map[string]bool{"TH": true, "AL": true, "SP": true, "TB": true, "OH": true}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
