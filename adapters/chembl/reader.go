// Package chembl reads saved responses of the ChEMBL activity search API.
// Only the fields the pipeline consumes are extracted; everything else in the
// payload is ignored.
package chembl

import (
	"fmt"
	"io"
	"os"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/internal/errors"

	"github.com/tidwall/gjson"
)

// DefaultDataPath is where the activity endpoint puts its records
const DefaultDataPath = "activities"

const serviceName = "chembl"

// Reader extracts activity records from ChEMBL JSON
type Reader struct {
	// DataPath is a gjson path to the record array; "" or "." means the document root
	DataPath string
}

// NewReader creates a reader for the standard activity response layout
func NewReader() *Reader {
	return &Reader{DataPath: DefaultDataPath}
}

// ReadFile reads a saved response from disk
func (r *Reader) ReadFile(path string) ([]activity.RawActivityRecord, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.Parse(body)
}

// Read consumes a response body
func (r *Reader) Read(in io.Reader) ([]activity.RawActivityRecord, error) {
	body, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("failed to read response: %w", err))
	}
	return r.Parse(body)
}

// Parse extracts records. A bare top-level array is accepted as well as the
// paginated {"activities": [...]} envelope. A body of any other shape is
// reported as an external service error.
func (r *Reader) Parse(body []byte) ([]activity.RawActivityRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("response is not valid JSON"))
	}

	root := gjson.ParseBytes(body)
	data := root
	if !root.IsArray() && r.DataPath != "" && r.DataPath != "." {
		data = root.Get(r.DataPath)
		if !data.Exists() {
			return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("data path '%s' not found in response", r.DataPath))
		}
	}
	if !data.IsArray() {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("data path '%s' is not an array", r.DataPath))
	}

	items := data.Array()
	records := make([]activity.RawActivityRecord, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("activity %d is not an object", i))
		}
		records = append(records, activity.RawActivityRecord{
			ActivityID:    core.ActivityID(scalar(item.Get(activity.ColActivityID))),
			MoleculeID:    core.MoleculeID(scalar(item.Get(activity.ColMoleculeID))),
			Structure:     scalar(item.Get(activity.ColStructure)),
			StandardValue: scalar(item.Get(activity.ColStandardValue)),
			StandardType:  scalar(item.Get(activity.ColStandardType)),
		})
	}
	return records, nil
}

// scalar renders a JSON scalar verbatim; null and missing become ""
func scalar(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		return v.Raw
	default:
		return v.String()
	}
}
