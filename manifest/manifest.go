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

// package manifest reads the list of samples to process.

package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wtsi-hgi/porecycler/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNoSamples = Error("manifest contains no samples")

// FormatError is returned when a manifest doesn't match its Schema. Line is
// 1-based, and 0 when the error isn't about a particular line.
type FormatError struct {
	Source   string
	Line     int
	Schema   Schema
	Expected int
	Observed int
	Reason   string
}

func (e *FormatError) Error() string {
	msg := e.Source

	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}

	if e.Reason != "" {
		return msg + ": " + e.Reason
	}

	return fmt.Sprintf("%s: expected %d columns, found %d", msg, e.Expected, e.Observed)
}

// Load reads the CSV manifest at the given path, returning one Sample per
// non-blank line, in order.
//
// Fields are trimmed of surrounding whitespace, and a single trailing empty
// column (eg. from a trailing comma) is ignored. Lines starting with # are
// skipped.
//
// Any line that doesn't have exactly the columns of the given schema, or has
// a blank or invalid value, results in a *FormatError and no samples.
func Load(path string, schema Schema) ([]*types.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	var samples []*types.Sample

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, csvError(path, schema, err)
		}

		line, _ := r.FieldPos(0)

		sample, err := parseRecord(path, line, len(samples), record, schema)
		if err != nil {
			return nil, err
		}

		if sample != nil {
			samples = append(samples, sample)
		}
	}

	return checkNotEmpty(path, schema, samples)
}

func csvError(path string, schema Schema, err error) error {
	fe := &FormatError{Source: path, Schema: schema, Reason: err.Error()}

	var perr *csv.ParseError
	if errors.As(err, &perr) {
		fe.Line = perr.Line
		fe.Reason = perr.Err.Error()
	}

	return fe
}

// FromRows is like Load(), but takes rows that were already split in to
// fields, eg. from a spreadsheet. source is used in error messages, which
// number the first row as firstLine.
func FromRows(source string, firstLine int, rows [][]string, schema Schema) ([]*types.Sample, error) {
	samples := make([]*types.Sample, 0, len(rows))

	for i, row := range rows {
		if len(row) > 0 && strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}

		sample, err := parseRecord(source, firstLine+i, len(samples), row, schema)
		if err != nil {
			return nil, err
		}

		if sample != nil {
			samples = append(samples, sample)
		}
	}

	return checkNotEmpty(source, schema, samples)
}

func checkNotEmpty(source string, schema Schema, samples []*types.Sample) ([]*types.Sample, error) {
	if len(samples) == 0 {
		return nil, &FormatError{
			Source:   source,
			Schema:   schema,
			Expected: len(schema.Columns()),
			Reason:   ErrNoSamples.Error(),
		}
	}

	return samples, nil
}

// parseRecord returns a nil Sample for blank records.
func parseRecord(source string, line, index int, record []string, schema Schema) (*types.Sample, error) {
	fields := trimFields(record)
	if allBlank(fields) {
		return nil, nil
	}

	expected := len(schema.Columns())

	if len(fields) == expected+1 && fields[expected] == "" {
		fields = fields[:expected]
	}

	fe := &FormatError{
		Source:   source,
		Line:     line,
		Schema:   schema,
		Expected: expected,
		Observed: len(fields),
	}

	if len(fields) != expected {
		return nil, fe
	}

	for i, field := range fields {
		if field == "" {
			fe.Reason = fmt.Sprintf("the %s column is blank", schema.Columns()[i])

			return nil, fe
		}
	}

	if schema.hasBarcode() {
		if err := types.ValidateBarcode(fields[0]); err != nil {
			fe.Reason = fmt.Sprintf("%s: %q", err, fields[0])

			return nil, fe
		}
	}

	return schema.sample(index, fields), nil
}

func trimFields(record []string) []string {
	fields := make([]string, len(record))

	for i, field := range record {
		fields[i] = strings.TrimSpace(field)
	}

	return fields
}

func allBlank(fields []string) bool {
	for _, field := range fields {
		if field != "" {
			return false
		}
	}

	return true
}
