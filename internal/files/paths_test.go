package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "idrcli/internal/errors"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `C:\data\usage.csv`, `C:\data\usage.csv`},
		{"double quoted", `"C:\data\usage.csv"`, `C:\data\usage.csv`},
		{"single quoted", `'/home/u/My File.csv'`, `/home/u/My File.csv`},
		{"powershell ampersand", `& 'C:\data\usage.csv'`, `C:\data\usage.csv`},
		{"surrounding whitespace", "  /tmp/a.csv  ", "/tmp/a.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePath(tt.input))
		})
	}
}

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "usage.csv")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0644))

	assert.NoError(t, ValidateInput(good))

	err := ValidateInput(filepath.Join(dir, "usage.pdf"))
	require.Error(t, err)
	code, _ := apperrors.CodeOf(err)
	assert.Equal(t, apperrors.CodeUnsupportedFileType, code, "extension checked before existence")

	err = ValidateInput(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	code, _ = apperrors.CodeOf(err)
	assert.Equal(t, apperrors.CodeFileNotFound, code)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("d", "usage_formatted.csv"),
		OutputPath(filepath.Join("d", "usage.csv"), false))
	assert.Equal(t, filepath.Join("d", "usage_formatted.xlsx"),
		OutputPath(filepath.Join("d", "usage.xlsx"), false))
	assert.Equal(t, filepath.Join("d", "legacy_formatted.xlsx"),
		OutputPath(filepath.Join("d", "legacy.xls"), false),
		"legacy xls output upgrades to xlsx")
	assert.Equal(t, filepath.Join("d", "multi_formatted.xlsx"),
		OutputPath(filepath.Join("d", "multi.csv"), true),
		"multi-sheet output forces xlsx")
}

func TestRedirect(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "usage_formatted.csv"),
		Redirect(filepath.Join("d", "usage_formatted.csv"), "out"))
}
