package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "idrcli/internal/errors"
)

// Source is one loaded input file. Readers and the detector operate on its
// cell grid; nothing downstream touches the file on disk again, so detection
// can never disturb the state a reader depends on.
type Source struct {
	Path string
	Ext  string

	// sheets holds the cell grid per sheet. CSV files load as a single
	// unnamed sheet.
	sheets     map[string][][]string
	sheetOrder []string
}

// csvSheet is the synthetic sheet name used for CSV containers.
const csvSheet = ""

// Load reads an input file into a Source. The extension decides the
// container: .csv parses as delimited text, .xlsx opens as an OPC workbook,
// and .xls goes through the legacy BIFF reader.
func Load(path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	src := &Source{Path: path, Ext: ext}

	switch ext {
	case ".csv":
		rows, err := loadCSV(path)
		if err != nil {
			return nil, err
		}
		src.sheets = map[string][][]string{csvSheet: rows}
		src.sheetOrder = []string{csvSheet}
	case ".xlsx", ".xls":
		load := loadWorkbook
		if ext == ".xls" {
			load = loadLegacyWorkbook
		}
		sheets, order, err := load(path)
		if err != nil {
			return nil, err
		}
		src.sheets = sheets
		src.sheetOrder = order
	default:
		return nil, apperrors.NewUnsupportedTypeError(ext)
	}

	if src.RowCount() == 0 {
		return nil, apperrors.NewUnrecognizedFormatError(
			fmt.Sprintf("file %s contains no rows", filepath.Base(path)), nil)
	}
	return src, nil
}

// Rows returns the cell grid of the primary sheet (the CSV body, or the
// workbook's first sheet).
func (s *Source) Rows() [][]string {
	return s.sheets[s.sheetOrder[0]]
}

// SheetNames lists the workbook sheets in order. CSV sources report one
// unnamed sheet.
func (s *Source) SheetNames() []string {
	return s.sheetOrder
}

// SheetRows returns the cell grid of a named sheet, or nil if absent.
func (s *Source) SheetRows(name string) [][]string {
	return s.sheets[name]
}

// HasSheet reports whether the workbook contains a sheet with the given name.
func (s *Source) HasSheet(name string) bool {
	_, ok := s.sheets[name]
	return ok
}

// Prefix returns up to n rows of the primary sheet for signature scanning.
func (s *Source) Prefix(n int) [][]string {
	rows := s.Rows()
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// RowCount returns the number of rows in the primary sheet.
func (s *Source) RowCount() int {
	if len(s.sheetOrder) == 0 {
		return 0
	}
	return len(s.Rows())
}

// MaxCols returns the widest row of the primary sheet. First Energy CSVs are
// ragged, so readers that index columns pre-scan this.
func (s *Source) MaxCols() int {
	max := 0
	for _, row := range s.Rows() {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Cell safely indexes a row, returning "" past its end.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// loadCSV reads a delimited text file, tolerating ragged rows. Files that are
// not valid UTF-8 are re-decoded as Windows-1252 before failing.
func loadCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewFileNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !utf8.Valid(data) {
		slog.Warn("File is not valid UTF-8, falling back to Windows-1252",
			slog.String("file", filepath.Base(path)))
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, apperrors.NewEncodingError(
				fmt.Sprintf("file %s is neither UTF-8 nor Windows-1252", filepath.Base(path)), decErr)
		}
		data = decoded
	}
	// Strip a UTF-8 BOM so the first header cell compares clean.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParseError(
			fmt.Sprintf("failed to parse delimited text in %s", filepath.Base(path)), err)
	}
	return rows, nil
}

// sniffDelimiter picks tab over comma when the first non-empty line carries
// tabs but no commas (PSEG exports come both ways).
func sniffDelimiter(data []byte) rune {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if !bytes.ContainsRune(trimmed, ',') && bytes.ContainsRune(trimmed, '\t') {
			return '\t'
		}
		return ','
	}
	return ','
}

// loadWorkbook opens an Excel file and materializes every sheet.
func loadWorkbook(path string) (map[string][][]string, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.NewFileNotFoundError(path)
		}
		return nil, nil, apperrors.NewParseError(
			fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}
	defer f.Close()

	sheets := make(map[string][][]string)
	var order []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			slog.Warn("Skipping unreadable sheet",
				slog.String("sheet", name),
				slog.String("error", err.Error()))
			continue
		}
		sheets[name] = rows
		order = append(order, name)
	}
	if len(order) == 0 {
		return nil, nil, apperrors.NewUnrecognizedFormatError(
			fmt.Sprintf("workbook %s has no readable sheets", filepath.Base(path)), nil)
	}
	return sheets, order, nil
}

// loadLegacyWorkbook opens a BIFF .xls file and materializes every sheet.
// excelize only reads OPC containers, so the legacy format needs its own
// reader.
func loadLegacyWorkbook(path string) (map[string][][]string, []string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.NewFileNotFoundError(path)
		}
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, nil, apperrors.NewParseError(
			fmt.Sprintf("failed to open legacy workbook %s", filepath.Base(path)), err)
	}

	sheets := make(map[string][][]string)
	var order []string
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets[ws.Name] = rows
		order = append(order, ws.Name)
	}
	if len(order) == 0 {
		return nil, nil, apperrors.NewUnrecognizedFormatError(
			fmt.Sprintf("workbook %s has no readable sheets", filepath.Base(path)), nil)
	}
	return sheets, order, nil
}
