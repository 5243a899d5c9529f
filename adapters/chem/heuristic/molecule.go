package heuristic

// Molecule carries descriptor values computed once from the parsed graph
type Molecule struct {
	atoms     int
	weight    float64
	logP      float64
	donors    int
	acceptors int
}

// MolecularWeight returns the average molecular weight including hydrogens
func (m *Molecule) MolecularWeight() float64 { return m.weight }

// LogP returns the atom-contribution estimate of the partition coefficient
func (m *Molecule) LogP() float64 { return m.logP }

// HBondDonors counts nitrogen and oxygen atoms bearing at least one hydrogen
func (m *Molecule) HBondDonors() int { return m.donors }

// HBondAcceptors counts nitrogen and oxygen atoms
func (m *Molecule) HBondAcceptors() int { return m.acceptors }

// HeavyAtoms returns the number of non-hydrogen atoms
func (m *Molecule) HeavyAtoms() int { return m.atoms }

func newMolecule(g *graph) *Molecule {
	m := &Molecule{}
	for i := range g.atoms {
		a := &g.atoms[i]
		m.weight += atomicWeights[a.element] + float64(a.hydrogen)*atomicWeights["H"]
		if a.element == "H" {
			continue
		}
		m.atoms++

		h := g.totalHydrogens(i)
		if a.element == "N" || a.element == "O" {
			m.acceptors++
			if h > 0 {
				m.donors++
			}
		}
		m.logP += g.atomLogP(i, h)
	}
	return m
}

// totalHydrogens adds explicit [H] neighbours to the attached count
func (g *graph) totalHydrogens(i int) int {
	h := g.atoms[i].hydrogen
	for _, b := range g.atoms[i].bonds {
		if g.atoms[b.to].element == "H" {
			h++
		}
	}
	return h
}

func (g *graph) hasHeteroNeighbour(i int) bool {
	for _, b := range g.atoms[i].bonds {
		switch g.atoms[b.to].element {
		case "C", "H":
		default:
			return true
		}
	}
	return false
}

func (g *graph) hasDoubleBond(i int) bool {
	for _, b := range g.atoms[i].bonds {
		if b.order == 2 {
			return true
		}
	}
	return false
}

// atomLogP is the contribution of heavy atom i and its h attached hydrogens
func (g *graph) atomLogP(i, h int) float64 {
	a := &g.atoms[i]
	var heavy, perH float64

	switch a.element {
	case "C":
		perH = logPHydrocarbonH
		hetero := g.hasHeteroNeighbour(i)
		switch {
		case a.aromatic && hetero:
			heavy = logPAromaticCHetero
		case a.aromatic:
			heavy = logPAromaticC
		case hetero:
			heavy = logPCarbonHetero
		default:
			heavy = logPCarbon
		}
	case "N":
		perH = logPAmineH
		switch {
		case a.charge != 0:
			heavy = logPChargedN
		case a.aromatic:
			heavy = logPAromaticN
		case h >= 2:
			heavy = logPAmineNH2
		case h == 1:
			heavy = logPAmineNH
		default:
			heavy = logPAmineN
		}
	case "O":
		perH = logPHydroxylH
		switch {
		case a.charge != 0:
			heavy = logPChargedO
		case a.aromatic:
			heavy = logPAromaticO
		case h > 0:
			heavy = logPHydroxylO
		case g.hasDoubleBond(i):
			heavy = logPCarbonylO
		default:
			heavy = logPEtherO
		}
	case "S":
		perH = logPAmineH
		heavy = logPSulfur
		if a.aromatic {
			heavy = logPAromaticS
		}
	case "P":
		heavy = logPPhosphorus
	case "F":
		heavy = logPFluorine
	case "Cl":
		heavy = logPChlorine
	case "Br":
		heavy = logPBromine
	case "I":
		heavy = logPIodine
	}
	return heavy + float64(h)*perH
}
