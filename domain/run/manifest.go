package run

import (
	"crypto/sha256"
	"fmt"
	"time"

	"gobioact/domain/core"
)

// CodeVersion is recorded in every manifest; bump it when stage semantics change
const CodeVersion = "1.0.0"

// RunFingerprint ensures deterministic replay: identical inputs, configuration,
// structure parser and code version always produce the same fingerprint
type RunFingerprint struct {
	InputHash   core.ContentHash `json:"input_hash"`
	ConfigHash  core.ConfigHash  `json:"config_hash"`
	ParserName  string           `json:"parser_name"`
	CodeVersion string           `json:"code_version"`
	Fingerprint core.Hash        `json:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(inputHash core.ContentHash, configHash core.ConfigHash, parserName, codeVersion string) RunFingerprint {
	data := fmt.Sprintf("input:%s|config:%s|parser:%s|code:%s", inputHash, configHash, parserName, codeVersion)
	sum := sha256.Sum256([]byte(data))

	return RunFingerprint{
		InputHash:   inputHash,
		ConfigHash:  configHash,
		ParserName:  parserName,
		CodeVersion: codeVersion,
		Fingerprint: core.Hash(fmt.Sprintf("%x", sum)),
	}
}

// Manifest records what a run consumed and produced
type Manifest struct {
	RunID       core.RunID       `json:"run_id"`
	Fingerprint RunFingerprint   `json:"fingerprint"`
	OutputHash  core.ContentHash `json:"output_hash"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewManifest creates a run manifest
func NewManifest(runID core.RunID, fp RunFingerprint, outputHash core.ContentHash) *Manifest {
	return &Manifest{
		RunID:       runID,
		Fingerprint: fp,
		OutputHash:  outputHash,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Fingerprint.InputHash == "" {
		return core.NewValidationError("run_manifest", "input_hash cannot be empty")
	}
	if m.Fingerprint.ConfigHash == "" {
		return core.NewValidationError("run_manifest", "config_hash cannot be empty")
	}
	if m.Fingerprint.CodeVersion == "" {
		return core.NewValidationError("run_manifest", "code_version cannot be empty")
	}
	return nil
}

// SameOutcome reports whether two manifests describe a replay of the same run
func (m *Manifest) SameOutcome(other *Manifest) bool {
	return m.Fingerprint.Fingerprint == other.Fingerprint.Fingerprint && m.OutputHash == other.OutputHash
}
