package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/domain/descriptor"
	"gobioact/domain/stage"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Scalar accepts a JSON string, number or null and keeps its text verbatim.
// Activity exports disagree on whether ids and potencies are quoted.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*s = Scalar(data)
	default:
		return fmt.Errorf("expected string, number or null, got %s", data)
	}
	return nil
}

// RecordPayload is one activity row in a run request
type RecordPayload struct {
	ActivityID    Scalar `json:"activity_id"`
	MoleculeID    string `json:"molecule_chembl_id"`
	Structure     string `json:"canonical_smiles"`
	StandardValue Scalar `json:"standard_value"`
	StandardType  string `json:"standard_type"`
}

// ConfigPayload overrides server defaults; omitted fields keep the default
type ConfigPayload struct {
	PotencyCeiling     *float64 `json:"potency_ceiling,omitempty"`
	RemoveIntermediate *bool    `json:"remove_intermediate,omitempty"`
	Descriptors        []string `json:"descriptors,omitempty"`
	TestPotency        *bool    `json:"test_potency,omitempty"`
}

// RunRequest is the body of POST /api/v1/runs
type RunRequest struct {
	Records []RecordPayload `json:"records" validate:"required,dive"`
	Config  *ConfigPayload  `json:"config,omitempty"`
}

// Bind implements render.Binder
func (req *RunRequest) Bind(r *http.Request) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}

// Activities converts the payload rows to raw records
func (req *RunRequest) Activities() []activity.RawActivityRecord {
	out := make([]activity.RawActivityRecord, len(req.Records))
	for i, r := range req.Records {
		out[i] = activity.RawActivityRecord{
			ActivityID:    core.ActivityID(r.ActivityID),
			MoleculeID:    core.MoleculeID(r.MoleculeID),
			Structure:     r.Structure,
			StandardValue: string(r.StandardValue),
			StandardType:  r.StandardType,
		}
	}
	return out
}

// PipelineConfig applies overrides on top of defaults. Descriptor names are
// passed through unvalidated; the pipeline rejects unknown names before
// processing any record.
func (req *RunRequest) PipelineConfig(defaults stage.PipelineConfig) stage.PipelineConfig {
	cfg := defaults
	cfg.Descriptors = append([]descriptor.Name(nil), defaults.Descriptors...)
	if req.Config == nil {
		return cfg
	}
	if req.Config.PotencyCeiling != nil {
		cfg.PotencyCeiling = *req.Config.PotencyCeiling
	}
	if req.Config.RemoveIntermediate != nil {
		cfg.RemoveIntermediate = *req.Config.RemoveIntermediate
	}
	if req.Config.TestPotency != nil {
		cfg.TestPotency = *req.Config.TestPotency
	}
	if len(req.Config.Descriptors) > 0 {
		cfg.Descriptors = make([]descriptor.Name, len(req.Config.Descriptors))
		for i, d := range req.Config.Descriptors {
			cfg.Descriptors[i] = descriptor.Name(d)
		}
	}
	return cfg
}

// DescriptorInfo describes one registry entry
type DescriptorInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
