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

package types

import (
	"regexp"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidBarcode = Error("barcode must look like NB<digits> or B<digits>")

	barcodeSeparator = "_"
)

var barcodeRegex = regexp.MustCompile(`^N?B\d+$`)

// Sample is one row of a manifest. Barcode is empty for samples loaded in
// assemble-only mode, where reads are already named per sample. LongReads,
// ShortReadsR1 and ShortReadsR2 are file names relative to the reads and
// short-read roots respectively, and are only set for the manifest schemas
// that have those columns.
//
// Barcodes are not required to be unique amongst the samples of a run;
// Index, the position of the sample in its manifest, is what identifies it.
type Sample struct {
	Index        int
	ID           string
	Barcode      string
	LongReads    string
	ShortReadsR1 string
	ShortReadsR2 string
}

// ValidateBarcode returns ErrInvalidBarcode if the given barcode isn't of the
// form output by the basecaller's demultiplexer, eg. "NB01" or "B12".
func ValidateBarcode(barcode string) error {
	if !barcodeRegex.MatchString(barcode) {
		return ErrInvalidBarcode
	}

	return nil
}

// BarcodeNumber returns the numeric suffix of our Barcode, eg. "01" for
// "NB01". This is what the basecaller uses to name its per-barcode output
// directories, and porechop to name its binned output files.
func (s *Sample) BarcodeNumber() string {
	i := strings.LastIndex(s.Barcode, "B")

	return s.Barcode[i+1:]
}

// Name is the basename used for all of this sample's files: barcode and ID
// joined with an underscore, eg. "NB01_SampleA", or just the ID for samples
// without a barcode.
func (s *Sample) Name() string {
	if s.Barcode == "" {
		return s.ID
	}

	return s.Barcode + barcodeSeparator + s.ID
}
