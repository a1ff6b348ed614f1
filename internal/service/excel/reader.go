package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"costlens/internal/model"
)

// ErrUnsupportedFile 不支持的文件类型
var ErrUnsupportedFile = errors.New("unsupported file type")

// SupportedExtensions 可导入的文件扩展名
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// IsSupported 文件扩展名是否可导入
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Sheet 读取结果
type Sheet struct {
	Name    string
	Headers []string // 原始表头（不做规范化，去掉空表头）
	Rows    []model.RawRow
}

// ReadRows 读取第一个工作表（或 CSV）为原始行
// 第一行为表头；空单元格记为 ""，整行为空的行跳过。RowNo 为表格中的行号（表头为 1）。
func ReadRows(r io.Reader, filename string) ([]model.RawRow, error) {
	sheet, err := ReadSheet(r, filename)
	if err != nil {
		return nil, err
	}
	return sheet.Rows, nil
}

// ReadSheet 同 ReadRows，同时返回表头
func ReadSheet(r io.Reader, filename string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(r)
	case ".csv":
		return readCSV(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
}

func toSheet(name string, grid [][]string, value func(col, rowNo int, raw string) any) *Sheet {
	sheet := &Sheet{Name: name, Headers: []string{}, Rows: []model.RawRow{}}
	if len(grid) == 0 {
		return sheet
	}

	headers := grid[0]
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			sheet.Headers = append(sheet.Headers, h)
		}
	}

	for i := 1; i < len(grid); i++ {
		rowNo := i + 1
		row := model.NewRawRow()
		row.RowNo = rowNo
		filled := 0
		for j, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			raw := ""
			if j < len(grid[i]) {
				raw = grid[i][j]
			}
			// 空单元格记为 ""，表头存在即占位，避免模糊匹配落到其他列
			if strings.TrimSpace(raw) == "" {
				row.Set(h, "")
				continue
			}
			row.Set(h, value(j, rowNo, raw))
			filled++
		}
		if filled == 0 {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func readWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	name := sheets[0]

	grid, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	return toSheet(name, grid, func(col, rowNo int, raw string) any {
		cell, _ := excelize.CoordinatesToCellName(col+1, rowNo)
		return cellValue(f, name, cell, raw)
	}), nil
}

// cellValue 按单元格类型还原标量：数字 -> float64，布尔 -> bool，其余为字符串
func cellValue(f *excelize.File, sheet, cell, raw string) any {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw
	}
	// 数字单元格通常不带 t 属性（CellTypeUnset）
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func readCSV(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	return toSheet("csv", grid, func(_, _ int, raw string) any { return raw }), nil
}
