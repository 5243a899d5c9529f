package heuristic

import (
	"testing"

	"gobioact/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_KnownMolecules(t *testing.T) {
	tests := []struct {
		name      string
		smiles    string
		mw        float64
		donors    int
		acceptors int
		heavy     int
	}{
		{"ethanol", "CCO", 46.069, 1, 1, 3},
		{"benzene", "c1ccccc1", 78.114, 0, 0, 6},
		{"kekule benzene", "C1=CC=CC=C1", 78.114, 0, 0, 6},
		{"acetic acid", "CC(=O)O", 60.052, 1, 2, 4},
		{"pyridine", "c1ccncc1", 79.102, 0, 1, 6},
		{"aspirin", "CC(=O)Oc1ccccc1C(=O)O", 180.159, 1, 4, 13},
		{"hydrogen chloride", "Cl", 36.461, 0, 0, 1},
		{"ammonium", "[NH4+]", 18.039, 1, 1, 1},
		{"pyrrole", "c1cc[nH]c1", 67.091, 1, 1, 5},
		{"ring number", "C%10CC%10", 42.081, 0, 0, 3},
		{"salt", "[Na+].[Cl-]", 58.443, 0, 0, 2},
		{"chiral alanine", "C[C@@H](N)C(=O)O", 89.094, 2, 3, 6},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol, err := p.Parse(tt.smiles)
			require.NoError(t, err)
			assert.InDelta(t, tt.mw, mol.MolecularWeight(), 1e-3)
			assert.Equal(t, tt.donors, mol.HBondDonors())
			assert.Equal(t, tt.acceptors, mol.HBondAcceptors())
			assert.Equal(t, tt.heavy, mol.(*Molecule).HeavyAtoms())
		})
	}
}

func TestParser_LogP(t *testing.T) {
	p := NewParser()

	ethanol, err := p.Parse("CCO")
	require.NoError(t, err)
	assert.InDelta(t, -0.0014, ethanol.LogP(), 1e-4)

	benzene, err := p.Parse("c1ccccc1")
	require.NoError(t, err)
	assert.InDelta(t, 1.6866, benzene.LogP(), 1e-4)

	hexane, err := p.Parse("CCCCCC")
	require.NoError(t, err)
	assert.Greater(t, hexane.LogP(), benzene.LogP())
}

func TestParser_Deterministic(t *testing.T) {
	p := NewParser()
	a, err := p.Parse("CC(=O)Oc1ccccc1C(=O)O")
	require.NoError(t, err)
	b, err := p.Parse("CC(=O)Oc1ccccc1C(=O)O")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParser_Errors(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"C1CC",
		"C(C",
		"C)C",
		"(C)C",
		"CX",
		"[C",
		"C=",
		"[Zz]",
		"C%1C",
		"C11",
	}

	p := NewParser()
	for _, s := range bad {
		_, err := p.Parse(s)
		require.Error(t, err, s)
		assert.ErrorIs(t, err, core.ErrStructureParse, s)
	}
}

func TestParseBracket(t *testing.T) {
	a, err := parseBracket("x", "13CH3+")
	require.NoError(t, err)
	assert.Equal(t, "C", a.element)
	assert.Equal(t, 3, a.hydrogen)
	assert.Equal(t, 1, a.charge)

	a, err = parseBracket("x", "O--")
	require.NoError(t, err)
	assert.Equal(t, -2, a.charge)

	a, err = parseBracket("x", "C@TH1H")
	require.NoError(t, err)
	assert.Equal(t, 1, a.hydrogen)

	a, err = parseBracket("x", "se")
	require.NoError(t, err)
	assert.Equal(t, "Se", a.element)
	assert.True(t, a.aromatic)
}
