package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/errors"
	"github.com/AbderrahimDaaloul/WPCSReportGenerator/internal/exporter"
)

func writeInputCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerate_EndToEnd(t *testing.T) {
	input := writeInputCSV(t,
		"Work date,Shift,Machine,Q`ty,WPCS Qty\n"+
			"2024-01-05,A,A01,100,30\n"+
			"2024-01-06,B,A01,50,5\n"+
			"2024-01-01,A,A99,10,10\n"+
			"bad-date,A,A02,5,5\n")
	output := filepath.Join(t.TempDir(), "report.xlsx")

	res, err := NewGenerator(nil).Generate(context.Background(), Request{
		InputPath:  input,
		OutputPath: output,
	})
	require.NoError(t, err)

	assert.Equal(t, output, res.OutputPath)
	assert.Equal(t, 1, res.MachineCount)
	assert.Equal(t, 4, res.Stats.RowsLoaded)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(exporter.SheetName, cell)
		require.NoError(t, err)
		return v
	}

	// block A: header + the single surviving machine
	assert.Equal(t, "machine", get("A1"))
	assert.Equal(t, "WPCS %", get("E1"))
	assert.Equal(t, "A01", get("A2"))
	assert.Equal(t, "2024-01-06", get("B2"))
	assert.Equal(t, "150", get("C2"))
	assert.Equal(t, "35", get("D2"))
	assert.Equal(t, "23.33", get("E2"))

	// blank separator row
	assert.Equal(t, "", get("A3"))

	// block B: grand total
	assert.Equal(t, "Total worked Q'ty", get("A4"))
	assert.Equal(t, "Total WPC qty", get("B4"))
	assert.Equal(t, "Total WPCS %", get("C4"))
	assert.Equal(t, "150", get("A5"))
	assert.Equal(t, "35", get("B5"))
	assert.Equal(t, "23.33", get("C5"))
}

func TestGenerate_MissingColumnWritesNothing(t *testing.T) {
	input := writeInputCSV(t, "Work date,Shift,Q`ty,WPCS Qty\n2024-01-05,A,100,30\n")
	output := filepath.Join(t.TempDir(), "report.xlsx")

	_, err := NewGenerator(nil).Generate(context.Background(), Request{
		InputPath:  input,
		OutputPath: output,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
	assert.Contains(t, err.Error(), "Machine")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output file may exist after a failed run")
}

func TestGenerate_AllRowsWashOut(t *testing.T) {
	// every date is unparseable; the run degrades to an empty report
	input := writeInputCSV(t,
		"Work date,Shift,Machine,Q`ty,WPCS Qty\n"+
			"not-a-date,A,A01,100,30\n"+
			"also bad,B,A02,50,25\n")
	output := filepath.Join(t.TempDir(), "report.xlsx")

	res, err := NewGenerator(nil).Generate(context.Background(), Request{
		InputPath:  input,
		OutputPath: output,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.MachineCount)
	assert.Equal(t, 2, res.Stats.RowsDroppedDate)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(exporter.SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "machine", v)

	// total block sits directly after the header and separator
	v, err = f.GetCellValue(exporter.SheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestGenerate_RequestValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing input path",
			req:      Request{OutputPath: "out.xlsx"},
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name:     "missing output path",
			req:      Request{InputPath: "in.csv"},
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name:     "unsupported input extension",
			req:      Request{InputPath: "in.txt", OutputPath: "out.xlsx"},
			wantType: apperrors.ErrTypeUnsupportedFormat,
		},
		{
			name:     "unsupported output extension",
			req:      Request{InputPath: "in.csv", OutputPath: "out.csv"},
			wantType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(nil).Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType),
				"got %s, want %s", apperrors.TypeOf(err), tt.wantType)
		})
	}
}

func TestGenerate_InputFileMissing(t *testing.T) {
	_, err := NewGenerator(nil).Generate(context.Background(), Request{
		InputPath:  filepath.Join(t.TempDir(), "absent.csv"),
		OutputPath: filepath.Join(t.TempDir(), "report.xlsx"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
}

func TestGenerate_OverwritesExistingOutput(t *testing.T) {
	input := writeInputCSV(t,
		"Work date,Shift,Machine,Q`ty,WPCS Qty\n2024-01-05,A,A01,100,40\n")
	output := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0644))

	_, err := NewGenerator(nil).Generate(context.Background(), Request{
		InputPath:  input,
		OutputPath: output,
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(exporter.SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A01", v)
}
