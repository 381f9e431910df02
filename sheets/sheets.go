/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package sheets lets you keep your manifest in a Google sheet instead of a
// CSV file.

package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/wtsi-hgi/porecycler/manifest"
	"github.com/wtsi-hgi/porecycler/types"
	"google.golang.org/api/option"
	googleSheets "google.golang.org/api/sheets/v4"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData                = Error("no data found in sheet")
	ErrMissingColumn         = Error("column not found in sheet")
	ErrIncompleteCredentials = Error("credentials file lacks a client email or private key")

	// firstRow is the number the sheet UI gives its top row.
	firstRow = 1
)

// Sheets allows the retrival of sheets from Google docs.
type Sheets struct {
	srv *googleSheets.Service
}

// New returns a Sheets that you can Read() sheets from Google docs with.
func New(ctx context.Context, creds *Credentials) (*Sheets, error) {
	srv, err := googleSheets.NewService(ctx, option.WithHTTPClient(creds.client(ctx)))
	if err != nil {
		return nil, err
	}

	return &Sheets{srv: srv}, nil
}

// Sheet contains the retrieved cells in a Google sheet.
type Sheet struct {
	ColumnHeaders []string
	Rows          [][]string
}

// Read retrieves the contents of a given document and sheet within that
// document. The id of a Google sheet is the long string of characters in the
// URL when viewing that document. The first row of the sheet is taken to be
// the ColumnHeaders.
func (s *Sheets) Read(docID, sheetName string) (*Sheet, error) {
	valRange, err := s.srv.Spreadsheets.Values.Get(docID, sheetName).Do()
	if err != nil {
		return nil, err
	}

	if len(valRange.Values) == 0 {
		return nil, ErrNoData
	}

	return newSheet(valRange.Values), nil
}

func newSheet(values [][]any) *Sheet {
	sheet := &Sheet{
		ColumnHeaders: rowToStringSlice(values[0]),
		Rows:          make([][]string, len(values)-1),
	}

	for i, row := range values[1:] {
		sheet.Rows[i] = rowToStringSlice(row)
	}

	return sheet
}

func rowToStringSlice(in []any) []string {
	out := make([]string, len(in))

	for i, cols := range in {
		out[i] = fmt.Sprint(cols)
	}

	return out
}

// Columns returns the Rows, but only with the given columns, in the given
// order. Column names are matched case-insensitively. Cells missing from the
// end of short rows are returned blank.
func (s *Sheet) Columns(names ...string) ([][]string, error) {
	indices, err := s.columnIndices(names)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(s.Rows))

	for i, row := range s.Rows {
		rows[i] = make([]string, len(indices))

		for j, index := range indices {
			if index < len(row) {
				rows[i][j] = row[index]
			}
		}
	}

	return rows, nil
}

func (s *Sheet) columnIndices(names []string) ([]int, error) {
	lookup := make(map[string]int, len(s.ColumnHeaders))

	for i, header := range s.ColumnHeaders {
		lookup[normaliseHeader(header)] = i
	}

	indices := make([]int, len(names))

	for i, name := range names {
		index, found := lookup[normaliseHeader(name)]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}

		indices[i] = index
	}

	return indices, nil
}

func normaliseHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Manifest reads the given sheet and parses it as a manifest with the given
// schema.
func (s *Sheets) Manifest(docID, sheetName string, schema manifest.Schema) ([]*types.Sample, error) {
	sheet, err := s.Read(docID, sheetName)
	if err != nil {
		return nil, err
	}

	return sheet.Manifest(docID+"/"+sheetName, schema)
}

// Manifest parses the Sheet as a manifest with the given schema. If the
// ColumnHeaders name all of the schema's columns, those columns are used
// wherever they are; otherwise the sheet is treated like a manifest file
// without a header, and the first row is a sample like any other.
func (s *Sheet) Manifest(source string, schema manifest.Schema) ([]*types.Sample, error) {
	rows, err := s.Columns(schema.Columns()...)
	if err != nil {
		return manifest.FromRows(source, firstRow, append([][]string{s.ColumnHeaders}, s.Rows...), schema)
	}

	return manifest.FromRows(source, firstRow+1, rows, schema)
}
