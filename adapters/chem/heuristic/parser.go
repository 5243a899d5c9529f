// Package heuristic provides a dependency-free SMILES reader implementing the
// structure parser port. It handles the organic subset, bracket atoms, rings,
// branches and aromaticity, which covers canonical SMILES from activity
// databases. Descriptor values are estimates.
package heuristic

import (
	"gobioact/ports"
)

// Parser reads canonical SMILES
type Parser struct{}

// NewParser creates a new heuristic SMILES parser
func NewParser() *Parser {
	return &Parser{}
}

// Name identifies the parser in run fingerprints and cache keys
func (p *Parser) Name() string {
	return "heuristic-smiles/1"
}

// Parse builds a molecule from a SMILES string. Failures wrap
// core.ErrStructureParse.
func (p *Parser) Parse(structure string) (ports.Molecule, error) {
	g, err := parseSMILES(structure)
	if err != nil {
		return nil, err
	}
	return newMolecule(g), nil
}

var _ ports.StructureParser = (*Parser)(nil)
