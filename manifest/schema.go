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

package manifest

import (
	"strings"

	"github.com/wtsi-hgi/porecycler/types"
)

// Schema describes the columns a manifest must have.
type Schema int

const (
	// SchemaStandard is "barcode, sampleName".
	SchemaStandard Schema = iota

	// SchemaHybrid is "barcode, sampleName, illuminaR1, illuminaR2".
	SchemaHybrid

	// SchemaAssembleOnly is "sampleName, longReads".
	SchemaAssembleOnly

	// SchemaAssembleOnlyHybrid is "sampleName, longReads, illuminaR1,
	// illuminaR2".
	SchemaAssembleOnlyHybrid
)

// SchemaFor returns the Schema that manifests must follow for the given run.
func SchemaFor(cfg types.RunConfig) Schema {
	switch {
	case cfg.AssembleOnly && cfg.Hybrid:
		return SchemaAssembleOnlyHybrid
	case cfg.AssembleOnly:
		return SchemaAssembleOnly
	case cfg.Hybrid:
		return SchemaHybrid
	default:
		return SchemaStandard
	}
}

// Columns returns the names of our columns, in order.
func (s Schema) Columns() []string {
	switch s {
	case SchemaHybrid:
		return []string{"barcode", "sample", "illumina R1", "illumina R2"}
	case SchemaAssembleOnly:
		return []string{"sample", "long reads"}
	case SchemaAssembleOnlyHybrid:
		return []string{"sample", "long reads", "illumina R1", "illumina R2"}
	default:
		return []string{"barcode", "sample"}
	}
}

func (s Schema) hasBarcode() bool {
	return s == SchemaStandard || s == SchemaHybrid
}

// Example returns an example manifest row for this schema.
func (s Schema) Example() string {
	switch s {
	case SchemaHybrid:
		return "NB01, Sample_ID, Illumina_R1.fastq.gz, Illumina_R2.fastq.gz"
	case SchemaAssembleOnly:
		return "Sample_ID, Sample_ID.fastq"
	case SchemaAssembleOnlyHybrid:
		return "Sample_ID, Sample_ID.fastq, Illumina_R1.fastq.gz, Illumina_R2.fastq.gz"
	default:
		return "NB01, Sample_ID"
	}
}

// Guidance describes what a manifest for this schema should look like, for
// users whose manifest failed to load.
func (s Schema) Guidance() string {
	var b strings.Builder

	b.WriteString("each line of your manifest should have the columns: ")
	b.WriteString(strings.Join(s.Columns(), ", "))
	b.WriteString("\neg. ")
	b.WriteString(s.Example())

	switch s {
	case SchemaStandard:
		b.WriteString("\nif you have Illumina reads for a hybrid assembly, use --hybrid")
	case SchemaHybrid:
		b.WriteString("\nif you only have MinION reads, don't use --hybrid")
	case SchemaAssembleOnly, SchemaAssembleOnlyHybrid:
	}

	return b.String()
}

// sample converts trimmed fields, already checked to be the right number for
// this schema, to a Sample.
func (s Schema) sample(index int, fields []string) *types.Sample {
	sample := &types.Sample{Index: index}

	switch s {
	case SchemaStandard:
		sample.Barcode, sample.ID = fields[0], fields[1]
	case SchemaHybrid:
		sample.Barcode, sample.ID = fields[0], fields[1]
		sample.ShortReadsR1, sample.ShortReadsR2 = fields[2], fields[3]
	case SchemaAssembleOnly:
		sample.ID, sample.LongReads = fields[0], fields[1]
	case SchemaAssembleOnlyHybrid:
		sample.ID, sample.LongReads = fields[0], fields[1]
		sample.ShortReadsR1, sample.ShortReadsR2 = fields[2], fields[3]
	}

	return sample
}
