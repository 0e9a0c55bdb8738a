// cmd/admin/excel.go
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"go_4_sight_reader/internal/model"
)

// historySheet は excelize.NewFile が作る既定のシートです。
const historySheet = "Sheet1"

// readWordColumn は .xlsx / .csv の1列目を単語として読みます。
// 1行目が "word" なら見出しとして読み飛ばします。sheet が空なら最初のシートを使います。
func readWordColumn(path, sheet string) ([]string, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	words := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		w := strings.TrimSpace(row[0])
		if w == "" || (i == 0 && strings.EqualFold(w, "word")) {
			continue
		}
		words = append(words, w)
	}
	return words, nil
}

func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
}

// writeHistoryWorkbook はセッション履歴を1シートのワークブックとして保存します。
func writeHistoryWorkbook(path string, records []*model.SessionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"Completed At", "Started At", "Source", "Blend", "Words", "Cards Shown", "Revisits Shown", "Minutes"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.CompletedAt.Local().Format("2006-01-02 15:04:05"),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Source),
			r.Slug,
			r.WordsPlanned,
			r.CardsShown,
			r.RevisitsShown,
			r.CompletedAt.Sub(r.StartedAt).Minutes(),
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
