package import_excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTemplates_AreRecognisedHeaders(t *testing.T) {
	tests := []struct {
		name  string
		build func() ([]byte, error)
		sheet sheetLayout
	}{
		{"workers", WorkerTemplate, workerSheet},
		{"products", ProductTemplate, productSheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.build()
			require.NoError(t, err)

			rows, err := ReadGrid("modele.xlsx", data)
			require.NoError(t, err)
			require.Len(t, rows, 1)

			sc := scanner{sheet: tt.sheet, bannerMinLength: 3}
			st, kind := sc.step(newScanState(""), rows[0])
			require.Equal(t, rowHeader, kind)

			for i, f := range tt.sheet.templateFields {
				assert.Equal(t, i, st.columns[f], "column of %s", f)
			}
		})
	}
}

func TestWorkerTemplate_Layout(t *testing.T) {
	data, err := WorkerTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Personnel", f.GetSheetName(0))

	v, err := f.GetCellValue("Personnel", "A1")
	require.NoError(t, err)
	assert.Equal(t, "NOMS", v)

	panes, err := f.GetPanes("Personnel")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}
