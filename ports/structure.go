package ports

// Molecule is a parsed chemical structure able to report the properties the
// descriptor registry needs.
type Molecule interface {
	MolecularWeight() float64
	LogP() float64
	HBondDonors() int
	HBondAcceptors() int
}

// StructureParser turns a structure string (canonical SMILES) into a Molecule.
// Implementations must be pure: the same input always yields the same molecule
// or the same error.
type StructureParser interface {
	// Name identifies the parser implementation; it is part of cache keys
	Name() string

	// Parse returns an error wrapping core.ErrStructureParse for unparsable input
	Parse(structure string) (Molecule, error)
}
