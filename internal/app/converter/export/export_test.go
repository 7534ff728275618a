package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/ian97531/boombox/internal/app/model"
)

func statements() []model.Statement {
	return []model.Statement{
		{
			EpisodeKey: "hello-internet_1530000000",
			Speaker:    0,
			StartTime:  0,
			EndTime:    1.5,
			Words: []model.StatementWord{
				{Content: "Hello", StartTime: 0, EndTime: 0.5},
				{Content: "there.", StartTime: 0.6, EndTime: 1.5},
			},
		},
		{
			EpisodeKey: "hello-internet_1530000000",
			Speaker:    1,
			StartTime:  3725.25,
			EndTime:    3726,
			Words:      []model.StatementWord{{Content: "Hi.", StartTime: 3725.25, EndTime: 3726}},
		},
	}
}

func TestWriteStatements(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatements(&buf, statements()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, sheetName, sheet.Name)
	require.Len(t, sheet.Rows, 3)

	for i, title := range Header {
		assert.Equal(t, title, sheet.Rows[0].Cells[i].Value)
	}
	assert.Equal(t, "Hello there.", sheet.Rows[1].Cells[4].Value)
	assert.Equal(t, "1", sheet.Rows[2].Cells[1].Value)
	assert.Equal(t, "1:02:05.250", sheet.Rows[2].Cells[2].Value)
}

func TestStatementsToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "statements.xlsx")
	require.NoError(t, StatementsToExcel(statements(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, file.Sheets[0].Rows, 3)
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0:00:00.000", formatSeconds(0))
	assert.Equal(t, "0:01:01.500", formatSeconds(61.5))
	assert.Equal(t, "2:00:00.001", formatSeconds(7200.001))
}
