package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gobioact/domain/activity"
	"gobioact/domain/core"
	"gobioact/internal"
	"gobioact/internal/errors"

	"github.com/xuri/excelize/v2"
)

// requiredColumns must be present in every activity export
var requiredColumns = []string{activity.ColMoleculeID, activity.ColStructure, activity.ColStandardValue}

// DataReader handles reading Excel and CSV activity exports
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultReaderConfig())
}

// NewDataReaderWithConfig creates a reader with explicit options
func NewDataReaderWithConfig(filePath string, config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadActivities reads the file and maps rows onto raw activity records
func (r *DataReader) ReadActivities() ([]activity.RawActivityRecord, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return ToActivities(data)
}

// readExcelData reads the configured worksheet into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file must have a header row")
	}
	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return r.readCSV(file)
}

func (r *DataReader) readCSV(in io.Reader) (*ExcelData, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file must have a header row")
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		// spreadsheet tools prepend a byte order mark to the first header
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

// ToActivities maps rows onto raw activity records. Values are kept verbatim;
// coercion belongs to the preprocessing stage. A missing activity_id column is
// replaced by the 1-based row number.
func ToActivities(data *ExcelData) ([]activity.RawActivityRecord, error) {
	var missing []string
	for _, col := range requiredColumns {
		if !data.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("activity export is missing columns: %s", strings.Join(missing, ", "))
	}

	hasID := data.HasColumn(activity.ColActivityID)
	records := make([]activity.RawActivityRecord, 0, len(data.Rows))
	for i, row := range data.Rows {
		id := row[activity.ColActivityID]
		if !hasID {
			id = strconv.Itoa(i + 1)
		}
		records = append(records, activity.RawActivityRecord{
			ActivityID:    core.ActivityID(id),
			MoleculeID:    core.MoleculeID(row[activity.ColMoleculeID]),
			Structure:     row[activity.ColStructure],
			StandardValue: row[activity.ColStandardValue],
			StandardType:  row[activity.ColStandardType],
		})
	}
	return records, nil
}
