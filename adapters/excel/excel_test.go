package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gobioact/adapters/export"
	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const activityCSV = "\ufeffactivity_id,molecule_chembl_id,canonical_smiles,standard_value,standard_type\n" +
	"101,CHEMBL1,CCO,500,IC50\n" +
	"102,CHEMBL2,c1ccccc1,,IC50\n" +
	"103,CHEMBL3,\"CC(=O)O\",50000,IC50\n"

func TestReadActivities_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.csv")
	require.NoError(t, os.WriteFile(path, []byte(activityCSV), 0o644))

	records, err := NewDataReader(path).ReadActivities()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, activity.RawActivityRecord{
		ActivityID:    "101",
		MoleculeID:    "CHEMBL1",
		Structure:     "CCO",
		StandardValue: "500",
		StandardType:  "IC50",
	}, records[0])
	assert.Equal(t, "", records[1].StandardValue)
	assert.Equal(t, "CC(=O)O", records[2].Structure)
}

func TestReadActivities_MissingColumns(t *testing.T) {
	_, err := ToActivities(&ExcelData{Headers: []string{"canonical_smiles"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "molecule_chembl_id")
	assert.Contains(t, err.Error(), "standard_value")
}

func TestToActivities_RowNumbersWithoutID(t *testing.T) {
	r := NewDataReader("x.csv")
	data, err := r.readCSV(strings.NewReader("molecule_chembl_id,canonical_smiles,standard_value\nCHEMBL1,C,1\nCHEMBL2,N,2\n"))
	require.NoError(t, err)

	records, err := ToActivities(data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, core.ActivityID("2"), records[1].ActivityID)
	assert.Equal(t, "", records[1].StandardType)
}

func TestReadData_NotFound(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.xlsx")).ReadData()
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestWorkbook_RoundTrip(t *testing.T) {
	raw := []activity.RawActivityRecord{
		{ActivityID: "1", MoleculeID: "CHEMBL1", Structure: "CCO", StandardValue: "500", StandardType: "IC50"},
		{ActivityID: "2", MoleculeID: "CHEMBL2", Structure: "CCN", StandardValue: "50000", StandardType: "IC50"},
	}
	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, WriteWorkbook(path,
		export.OriginalTable(raw),
		export.CleanedTable([]activity.CleanedRecord{{ActivityID: "1", StandardValue: 500}}),
	))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{export.TableOriginal, export.TableCleaned}, f.GetSheetList())
	require.NoError(t, f.Close())

	records, err := NewDataReader(path).ReadActivities()
	require.NoError(t, err)
	assert.Equal(t, raw, records)

	cleaned, err := NewDataReaderWithConfig(path, ReaderConfig{SheetName: export.TableCleaned}).ReadData()
	require.NoError(t, err)
	require.Len(t, cleaned.Rows, 1)
	assert.Equal(t, "500", cleaned.Rows[0][activity.ColStandardValue])
}

func TestWriteWorkbook_NoTables(t *testing.T) {
	assert.Error(t, WriteWorkbook(filepath.Join(t.TempDir(), "empty.xlsx")))
}
