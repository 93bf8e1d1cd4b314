package files

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "idrcli/internal/errors"
)

// SupportedExtensions are the input container types the pipeline accepts.
var SupportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// SanitizePath strips the wrapper artifacts interactive shells add around
// dragged-and-dropped paths: PowerShell's leading "& " invocation operator
// and single or double quoting.
func SanitizePath(input string) string {
	path := strings.TrimSpace(input)
	if strings.HasPrefix(path, "& ") {
		path = strings.TrimSpace(path[2:])
	}
	if len(path) >= 2 {
		if (strings.HasPrefix(path, "'") && strings.HasSuffix(path, "'")) ||
			(strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`)) {
			path = path[1 : len(path)-1]
		}
	}
	return strings.Trim(path, `"'`)
}

// ValidateInput checks that the path exists and carries a supported
// extension. Both checks run before any file content is touched.
func ValidateInput(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !SupportedExtensions[ext] {
		return apperrors.NewUnsupportedTypeError(ext)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewFileNotFoundError(path)
		}
		return err
	}
	return nil
}

// OutputPath derives the report path for an input file:
// <stem>_formatted<ext> in the input's directory. Multi-customer output and
// legacy .xls inputs force .xlsx, since multi-sheet reports and new legacy
// workbooks can only be written as xlsx.
func OutputPath(inputPath string, forceXLSX bool) string {
	dir := filepath.Dir(inputPath)
	ext := strings.ToLower(filepath.Ext(inputPath))
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if forceXLSX || ext == ".xls" {
		ext = ".xlsx"
	}
	return filepath.Join(dir, stem+"_formatted"+ext)
}

// Redirect moves an output path into dir, keeping the file name.
func Redirect(outputPath, dir string) string {
	return filepath.Join(dir, filepath.Base(outputPath))
}
