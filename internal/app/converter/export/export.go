package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tealeg/xlsx"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
	"github.com/ian97531/boombox/internal/app/model"
)

const sheetName = "Statements"

// Header is the first row of an exported sheet.
var Header = []string{"Episode", "Speaker", "Start", "End", "Text"}

// StatementsWorkbook lays statements out one per row under Header.
func StatementsWorkbook(statements []model.Statement) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to add sheet")
	}

	headerRow := sheet.AddRow()
	for _, title := range Header {
		headerRow.AddCell().Value = title
	}

	for _, s := range statements {
		row := sheet.AddRow()
		row.AddCell().Value = s.EpisodeKey
		row.AddCell().Value = strconv.Itoa(s.Speaker)
		row.AddCell().Value = formatSeconds(s.StartTime)
		row.AddCell().Value = formatSeconds(s.EndTime)
		row.AddCell().Value = s.Text()
	}
	return file, nil
}

// WriteStatements writes the statements workbook to w.
func WriteStatements(w io.Writer, statements []model.Statement) error {
	file, err := StatementsWorkbook(statements)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrFileWriteFailed, err.Error())
	}
	return nil
}

// StatementsToExcel saves the statements workbook at outputFilePath.
func StatementsToExcel(statements []model.Statement, outputFilePath string) error {
	if dir := filepath.Dir(outputFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "create %s: %v", dir, err)
		}
	}

	file, err := StatementsWorkbook(statements)
	if err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return apperrors.Wrapf(apperrors.ErrFileWriteFailed, "save %s: %v", outputFilePath, err)
	}
	return nil
}

// formatSeconds renders seconds as h:mm:ss.mmm.
func formatSeconds(seconds float64) string {
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms%1000)
}
