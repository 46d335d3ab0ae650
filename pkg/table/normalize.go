// Package table turns row-major, column-major and double-header data into a
// uniform matrix and writes it into <table> elements.
package table

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-domtemplate/pkg/data"
)

var (
	// ErrIncorrectTableDataFormat is returned for data that is neither a list
	// of rows nor a mapping of columns.
	ErrIncorrectTableDataFormat = errors.New("table: incorrect table data format")
	// ErrUnresolvedColumn is returned when a keyed row names a column the
	// header does not have.
	ErrUnresolvedColumn = errors.New("table: unresolved column")
	// ErrTableElementNotFound is returned when no <table> can receive data.
	ErrTableElementNotFound = errors.New("table: no table element found")
)

// ColumnError names the column a keyed row could not be placed in.
type ColumnError struct {
	Column string
	Header []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("table: column %q is not in header %q", e.Column, e.Header)
}

func (e *ColumnError) Unwrap() error {
	return ErrUnresolvedColumn
}

// Row is one body row. A nil cell has no value for its column.
type Row struct {
	Cells []any
	// HeaderCell marks rows whose first cell labels the row (rendered as th).
	HeaderCell bool
}

// Matrix is table data reduced to a header and positional rows.
type Matrix struct {
	Header []string
	Rows   []Row
}

// Width returns the widest of the header and the rows.
func (m Matrix) Width() int {
	width := len(m.Header)
	for _, row := range m.Rows {
		if len(row.Cells) > width {
			width = len(row.Cells)
		}
	}
	return width
}

// Normalize converts value into a Matrix. hint is the header already present
// in the document, if any; it takes precedence over a header carried by the
// data.
func Normalize(value any, hint []string) (Matrix, error) {
	if value == nil {
		return Matrix{Header: clone(hint)}, nil
	}
	if data.IsKeyed(value) {
		return normalizeColumns(value, hint)
	}
	items, ok := data.Items(value)
	if !ok {
		return Matrix{}, fmt.Errorf("%w: got %T", ErrIncorrectTableDataFormat, value)
	}
	return normalizeRows(items, hint)
}

func normalizeRows(items []data.Item, hint []string) (Matrix, error) {
	m := Matrix{Header: clone(hint)}

	if len(m.Header) == 0 && len(items) > 0 {
		first := items[0].Value
		switch {
		case isSequence(first):
			cells, _ := data.Items(first)
			for _, cell := range cells {
				m.Header = append(m.Header, data.String(cell.Value))
			}
			items = items[1:]
		case data.IsKeyed(first) && !isDoubleHeader(first):
			fields, _ := data.Items(first)
			for _, field := range fields {
				m.Header = append(m.Header, field.Key)
			}
		}
	}

	for i, item := range items {
		row, err := normalizeRow(item.Value, m.Header)
		if err != nil {
			return Matrix{}, fmt.Errorf("row %d: %w", i, err)
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

func normalizeRow(value any, header []string) (Row, error) {
	switch {
	case isSequence(value):
		items, _ := data.Items(value)
		row := Row{Cells: make([]any, len(items))}
		for i, item := range items {
			row.Cells[i] = item.Value
		}
		return row, nil

	case isDoubleHeader(value):
		fields, _ := data.Items(value)
		key := fields[0].Key
		seq, _ := data.Items(fields[0].Value)
		if at := indexOf(header, key); at >= 0 {
			row := Row{Cells: make([]any, max(len(header), at+len(seq)))}
			for i, item := range seq {
				row.Cells[at+i] = item.Value
			}
			return row, nil
		}
		row := Row{Cells: make([]any, 0, len(seq)+1), HeaderCell: true}
		row.Cells = append(row.Cells, key)
		for _, item := range seq {
			row.Cells = append(row.Cells, item.Value)
		}
		return row, nil

	case data.IsKeyed(value):
		fields, _ := data.Items(value)
		row := Row{Cells: make([]any, len(header))}
		for _, field := range fields {
			if data.IsIterable(field.Value) {
				return Row{}, fmt.Errorf("%w: column %q holds a list", ErrIncorrectTableDataFormat, field.Key)
			}
			at := indexOf(header, field.Key)
			if at < 0 {
				return Row{}, &ColumnError{Column: field.Key, Header: clone(header)}
			}
			row.Cells[at] = field.Value
		}
		return row, nil
	}
	return Row{}, fmt.Errorf("%w: row is %T", ErrIncorrectTableDataFormat, value)
}

// normalizeColumns transposes a mapping of column name to cell sequence.
func normalizeColumns(value any, hint []string) (Matrix, error) {
	fields, _ := data.Items(value)
	columns := make(map[string][]data.Item, len(fields))
	var keys []string
	height := 0
	for _, field := range fields {
		if !isSequence(field.Value) {
			return Matrix{}, fmt.Errorf("%w: column %q is %T", ErrIncorrectTableDataFormat, field.Key, field.Value)
		}
		cells, _ := data.Items(field.Value)
		columns[field.Key] = cells
		keys = append(keys, field.Key)
		height = max(height, len(cells))
	}

	m := Matrix{Header: clone(hint)}
	for _, key := range keys {
		if indexOf(m.Header, key) < 0 {
			m.Header = append(m.Header, key)
		}
	}

	m.Rows = make([]Row, height)
	for r := range m.Rows {
		m.Rows[r].Cells = make([]any, len(m.Header))
		for c, name := range m.Header {
			if cells := columns[name]; r < len(cells) {
				m.Rows[r].Cells[c] = cells[r].Value
			}
		}
	}
	return m, nil
}

// isSequence reports an iterable that is not keyed.
func isSequence(v any) bool {
	return data.IsIterable(v) && !data.IsKeyed(v)
}

// isDoubleHeader matches {key: [cells...]}.
func isDoubleHeader(v any) bool {
	if !data.IsKeyed(v) {
		return false
	}
	fields, _ := data.Items(v)
	return len(fields) == 1 && isSequence(fields[0].Value)
}

func indexOf(header []string, key string) int {
	for i, name := range header {
		if name == key {
			return i
		}
	}
	return -1
}

func clone(header []string) []string {
	if len(header) == 0 {
		return nil
	}
	return append([]string(nil), header...)
}
