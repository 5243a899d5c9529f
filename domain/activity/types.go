// Package activity holds the tabular record types that flow through the
// bioactivity pipeline. Each stage produces a new snapshot; records are never
// mutated after they have been handed to the next stage.
package activity

import (
	"gobioact/domain/core"
	"gobioact/domain/descriptor"
)

// Column names shared by readers and exporters
const (
	ColActivityID    = "activity_id"
	ColMoleculeID    = "molecule_chembl_id"
	ColStructure     = "canonical_smiles"
	ColStandardValue = "standard_value"
	ColStandardType  = "standard_type"
	ColClass         = "bioactivity_class"
	ColPIC50         = "pIC50"
)

// AssayTypeIC50 is the only standard type the pipeline accepts
const AssayTypeIC50 = "IC50"

// Potency thresholds in nanomolar; both bounds are inclusive
const (
	ActiveMaxNM   = 1000.0
	InactiveMinNM = 10000.0
)

// DefaultPotencyCeilingNM caps raw IC50 before conversion to pIC50
const DefaultPotencyCeilingNM = 100_000_000.0

// BioactivityClass is the categorical potency bucket
type BioactivityClass string

const (
	ClassActive       BioactivityClass = "active"
	ClassInactive     BioactivityClass = "inactive"
	ClassIntermediate BioactivityClass = "intermediate"
)

// ClassifyPotency maps a raw IC50 (nM) to its class. Values at 1000 are
// active and values at 10000 are inactive.
func ClassifyPotency(standardValue float64) BioactivityClass {
	switch {
	case standardValue >= InactiveMinNM:
		return ClassInactive
	case standardValue <= ActiveMaxNM:
		return ClassActive
	default:
		return ClassIntermediate
	}
}

// RawActivityRecord is one measurement as received from the activity search.
// StandardValue is kept verbatim; an empty string means missing.
type RawActivityRecord struct {
	ActivityID    core.ActivityID `json:"activity_id"`
	MoleculeID    core.MoleculeID `json:"molecule_chembl_id"`
	Structure     string          `json:"canonical_smiles"`
	StandardValue string          `json:"standard_value"`
	StandardType  string          `json:"standard_type"`
}

// CleanedRecord has a finite, non-negative potency in nanomolar
type CleanedRecord struct {
	ActivityID    core.ActivityID `json:"activity_id"`
	MoleculeID    core.MoleculeID `json:"molecule_chembl_id"`
	Structure     string          `json:"canonical_smiles"`
	StandardValue float64         `json:"standard_value"`
}

// ClassifiedRecord adds the bioactivity class
type ClassifiedRecord struct {
	CleanedRecord
	Class BioactivityClass `json:"bioactivity_class"`
}

// PotencyRecord replaces the raw potency with pIC50
type PotencyRecord struct {
	ActivityID core.ActivityID  `json:"activity_id"`
	MoleculeID core.MoleculeID  `json:"molecule_chembl_id"`
	Structure  string           `json:"canonical_smiles"`
	Class      BioactivityClass `json:"bioactivity_class"`
	PIC50      float64          `json:"pIC50"`
}

// DescriptorRecord adds one score per requested descriptor
type DescriptorRecord struct {
	PotencyRecord
	Scores map[descriptor.Name]float64 `json:"descriptors"`
}

// Value returns a named numeric column: a descriptor score or pIC50
func (r DescriptorRecord) Value(column string) (float64, bool) {
	if column == ColPIC50 {
		return r.PIC50, true
	}
	v, ok := r.Scores[descriptor.Name(column)]
	return v, ok
}

// DescriptorSnapshot is the descriptor-enriched table with its column order
type DescriptorSnapshot struct {
	Descriptors []descriptor.Name  `json:"descriptors"`
	Records     []DescriptorRecord `json:"records"`
}

// ClassCounts tallies records per class
type ClassCounts struct {
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Intermediate int `json:"intermediate"`
}

// Add increments the counter for class c
func (c *ClassCounts) Add(class BioactivityClass) {
	switch class {
	case ClassActive:
		c.Active++
	case ClassInactive:
		c.Inactive++
	case ClassIntermediate:
		c.Intermediate++
	}
}

// Comparable reports whether both active and inactive groups are populated
func (c ClassCounts) Comparable() bool {
	return c.Active > 0 && c.Inactive > 0
}
