package excel

// ReaderConfig holds spreadsheet reading options
type ReaderConfig struct {
	// SheetName selects the worksheet; empty means the first sheet
	SheetName string `json:"sheet_name"`
}

// DefaultReaderConfig reads the first worksheet
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}
