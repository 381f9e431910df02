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

// package layout decides where every file of a run lives.

package layout

import (
	"os"
	"path/filepath"

	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/types"
)

const (
	RawDirName          = "raw_fastqs"
	TrimmedDirName      = "porechopped"
	AssemblerDirName    = "unicycler"
	FastaDirName        = "assembly_fasta"
	GraphDirName        = "assembly_graphs"
	LogDirName          = "assembly_logs"
	UnclassifiedDirName = "unclassified"

	fastqExt               = ".fastq"
	barcodeDirPrefix       = "barcode"
	trimmedDirSuffix       = "_porechopped"
	trimmedPrefix          = "BC"
	unclassifiedPrefix     = "UC"
	unclassifiedReadsName  = "unclassified.fastq"
	unclassifiedTrimmedDir = "unclassified_porechop"
	assemblerGraphName     = "assembly.gfa"
	assemblerFastaName     = "assembly.fasta"
	assemblerLogName       = "unicycler.log"
	finalGraphSuffix       = "_graph.gfa"
	finalFastaSuffix       = ".fasta"
	finalLogSuffix         = "_unicycler.log"
	allFiles               = "*"
	dirPerm                = 0755
)

// Shared are the paths of a run that don't belong to any one sample.
type Shared struct {
	RawDir       string
	TrimmedDir   string
	AssemblerDir string
	FastaDir     string
	GraphDir     string
	LogDir       string

	// only used when merging unclassified reads
	UnclassifiedGlob       string
	UnclassifiedReads      string
	UnclassifiedTrimmedDir string
}

// Root returns the Shared paths for the given run.
func Root(cfg types.RunConfig) Shared {
	root := cfg.OutputRoot
	raw := filepath.Join(root, RawDirName)

	return Shared{
		RawDir:                 raw,
		TrimmedDir:             filepath.Join(root, TrimmedDirName),
		AssemblerDir:           filepath.Join(root, AssemblerDirName),
		FastaDir:               filepath.Join(root, FastaDirName),
		GraphDir:               filepath.Join(root, GraphDirName),
		LogDir:                 filepath.Join(root, LogDirName),
		UnclassifiedGlob:       readsGlob(cfg, UnclassifiedDirName),
		UnclassifiedReads:      filepath.Join(raw, unclassifiedReadsName),
		UnclassifiedTrimmedDir: filepath.Join(raw, unclassifiedTrimmedDir),
	}
}

// Paths are all the files and directories used for one sample across the
// stages of a run. Fields that don't apply to a run's mode are left blank.
type Paths struct {
	Name string

	// trimming; not used in assemble-only runs
	BarcodeReadsGlob string
	RawReads         string
	TrimmedDir       string
	TrimmedReads     string
	FinalReads       string

	// merging of unclassified reads
	UnclassifiedTrimmed string
	UnclassifiedRenamed string

	// assembly
	LongReads     string
	ShortReadsR1  string
	ShortReadsR2  string
	AssemblyDir   string
	AssemblyGraph string
	AssemblyFasta string
	AssemblyLog   string

	// collection
	FinalGraph string
	FinalFasta string
	FinalLog   string
}

// Plan returns the Paths for the given sample in the given run. It does no
// IO, and always returns the same Paths given the same inputs.
func Plan(sample *types.Sample, cfg types.RunConfig) Paths {
	shared := Root(cfg)
	name := sample.Name()

	p := Paths{Name: name}

	if cfg.AssembleOnly {
		p.LongReads = filepath.Join(cfg.ReadsRoot, sample.LongReads)
	} else {
		planTrimming(&p, sample, cfg, shared)
	}

	if cfg.Hybrid {
		p.ShortReadsR1 = filepath.Join(cfg.ShortReadsRoot, sample.ShortReadsR1)
		p.ShortReadsR2 = filepath.Join(cfg.ShortReadsRoot, sample.ShortReadsR2)
	}

	p.AssemblyDir = filepath.Join(shared.AssemblerDir, name)
	p.AssemblyGraph = filepath.Join(p.AssemblyDir, assemblerGraphName)
	p.AssemblyFasta = filepath.Join(p.AssemblyDir, assemblerFastaName)
	p.AssemblyLog = filepath.Join(p.AssemblyDir, assemblerLogName)
	p.FinalGraph = filepath.Join(shared.GraphDir, name+finalGraphSuffix)
	p.FinalFasta = filepath.Join(shared.FastaDir, name+finalFastaSuffix)
	p.FinalLog = filepath.Join(shared.LogDir, name+finalLogSuffix)

	return p
}

func planTrimming(p *Paths, sample *types.Sample, cfg types.RunConfig, shared Shared) {
	num := sample.BarcodeNumber()
	binned := trimmedPrefix + num + fastqExt

	p.BarcodeReadsGlob = readsGlob(cfg, barcodeDirPrefix+num)
	p.RawReads = filepath.Join(shared.RawDir, p.Name+fastqExt)
	p.TrimmedDir = filepath.Join(shared.RawDir, num+trimmedDirSuffix)
	p.TrimmedReads = filepath.Join(p.TrimmedDir, binned)
	p.FinalReads = filepath.Join(shared.TrimmedDir, p.Name+fastqExt)
	p.LongReads = p.FinalReads

	if cfg.MergeUnclassified {
		p.UnclassifiedTrimmed = filepath.Join(shared.UnclassifiedTrimmedDir, binned)
		p.UnclassifiedRenamed = filepath.Join(shared.UnclassifiedTrimmedDir, unclassifiedPrefix+num+fastqExt)
	}
}

// readsGlob matches every file in the given sub directory of the reads root,
// which is taken literally.
func readsGlob(cfg types.RunConfig, dir string) string {
	return filepath.Join(executor.QuoteGlob(filepath.Join(cfg.ReadsRoot, dir)), allFiles)
}

// Dirs returns the directories that must exist before the given run starts.
func Dirs(cfg types.RunConfig) []string {
	shared := Root(cfg)

	var dirs []string

	if !cfg.AssembleOnly {
		dirs = append(dirs, shared.RawDir, shared.TrimmedDir)
	}

	if !cfg.TrimOnly {
		dirs = append(dirs, shared.AssemblerDir, shared.FastaDir, shared.GraphDir, shared.LogDir)
	}

	return dirs
}

// EnsureDirs creates the given directories if they don't already exist, and
// returns the ones it had to create.
func EnsureDirs(dirs []string) ([]string, error) {
	var created []string

	for _, dir := range dirs {
		_, err := os.Stat(dir)
		if err == nil {
			continue
		}

		if !os.IsNotExist(err) {
			return created, err
		}

		if err = os.MkdirAll(dir, dirPerm); err != nil {
			return created, err
		}

		created = append(created, dir)
	}

	return created, nil
}
