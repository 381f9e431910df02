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

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/porecycler/config"
	"github.com/wtsi-hgi/porecycler/executor"
	"github.com/wtsi-hgi/porecycler/manifest"
	"github.com/wtsi-hgi/porecycler/pipeline"
	"github.com/wtsi-hgi/porecycler/sheets"
	"github.com/wtsi-hgi/porecycler/tracking"
	"github.com/wtsi-hgi/porecycler/types"
)

const (
	ErrManifestRequired = Error("one of --input or --sheet is required")
	ErrTwoManifests     = Error("only one of --input or --sheet may be given")

	fastqFlag  = "fastq"
	outputFlag = "output"

	defaultSheetName = "manifest"
)

// options for the run and plan cmds.
var (
	runOpts      types.Options
	runInput     string
	runSheetID   string
	runSheetName string
	runNoReport  bool
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Trim and assemble the samples in a manifest.",
	Long: `Trim and assemble the samples in a manifest.

porechop and unicycler must be in your PATH, or set PORECYCLER_PORECHOP_EXE
and PORECYCLER_UNICYCLER_EXE to their locations.

Your manifest (--input) is a CSV file with one sample per line. Normally each
line has 2 columns:
NB01, Sample_ID

With --hybrid, add the names of the sample's Illumina read files found in the
--sbs directory:
NB01, Sample_ID, Illumina_R1.fastq.gz, Illumina_R2.fastq.gz

With --unicycler (assemble only), give the sample name and the name of its
already trimmed reads in the --fastq directory instead of a barcode:
Sample_ID, Sample_ID.fastq
Sample_ID, Sample_ID.fastq, Illumina_R1.fastq.gz, Illumina_R2.fastq.gz

Instead of a CSV file you can keep your manifest in a Google sheet with --sheet,
giving the ID from the sheet's URL. If the first row of the sheet names the
columns (barcode, sample, "illumina R1", "illumina R2", "long reads") they may
be in any order. PORECYCLER_CREDENTIALS_FILE must be the path to the JSON
credentials of a service account that can read the sheet.

The --fastq directory should contain the barcode01, barcode02 etc.
sub-directories made by your basecaller. Each barcode's reads are concatenated
and given to porechop, and the trimmed reads are saved in
<output>/porechopped/<barcode>_<sample>.fastq. With --merge, reads in the
"unclassified" sub-directory are also trimmed, and with --call as well those
that porechop could assign to a barcode are added to that barcode's reads.

Use --porechop to stop after trimming. Otherwise each sample is assembled by
unicycler in <output>/unicycler/<barcode>_<sample>, and the assembly graph,
FASTA and log are copied to <output>/assembly_graphs, assembly_fasta and
assembly_logs. A summary of the assemblies is then written to
<output>/assembly_summary.csv and .html, unless you use --no-report.

--remove deletes <output>/raw_fastqs (the concatenated and untrimmed reads)
once all assemblies have been collected.

Normally the first failure stops the run. With --keep-going a failed sample is
dropped and the others carry on, and all failures are reported at the end.

Everything is logged to PoreCycler.log in the current directory (see
PORECYCLER_LOG_FILE). If PORECYCLER_SQL_* are set, the progress of the run is
also recorded in that MySQL database.
`,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := config.FromEnv()
		if err != nil {
			dieWithGuidance(err)
		}

		transcript, closeTranscript, err := startTranscript(c.LogFile)
		if err != nil {
			die("%s", err)
		}

		err = runPorecycler(ctx, c, transcript)
		if err != nil {
			logFailure(err)
		}

		closeTranscript()

		if err != nil {
			stop()
			os.Exit(1)
		}
	},
}

func init() {
	RootCmd.AddCommand(runCmd)

	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&runNoReport, "no-report", false,
		"don't write an assembly summary report")
}

// addRunFlags adds the flags that describe a run to the given cmd.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runInput, "input", "i", "",
		"path to your manifest CSV file")
	cmd.Flags().StringVar(&runSheetID, "sheet", "",
		"ID of a Google sheet containing your manifest, instead of --input")
	cmd.Flags().StringVar(&runSheetName, "sheet-name", defaultSheetName,
		"name of the sheet within --sheet")
	cmd.Flags().StringVarP(&runOpts.ReadsRoot, fastqFlag, "f", "",
		"directory of basecalled reads (or of trimmed reads with --unicycler)")
	markFlagRequired(cmd, fastqFlag)
	cmd.Flags().StringVarP(&runOpts.OutputRoot, outputFlag, "o", "",
		"output directory, created if necessary")
	markFlagRequired(cmd, outputFlag)

	cmd.Flags().BoolVarP(&runOpts.TrimOnly, "porechop", "p", false,
		"only trim and demultiplex; don't assemble")
	cmd.Flags().BoolVar(&runOpts.AssembleOnly, "unicycler", false,
		"only assemble already trimmed reads named in the manifest")
	cmd.Flags().BoolVar(&runOpts.Hybrid, "hybrid", false,
		"hybrid assembly with Illumina reads named in the manifest")
	cmd.Flags().StringVarP(&runOpts.ShortReadsRoot, "sbs", "s", "",
		"directory of Illumina reads; required with --hybrid")
	cmd.Flags().BoolVarP(&runOpts.IncludeUnclassified, "call", "c", false,
		"with --merge, add demultiplexed unclassified reads to each barcode's reads")
	cmd.Flags().BoolVarP(&runOpts.MergeUnclassified, "merge", "m", false,
		"also trim and demultiplex the basecaller's unclassified reads")
	cmd.Flags().BoolVar(&runOpts.Conservative, "conservative", false,
		"run unicycler in conservative mode")
	cmd.Flags().BoolVar(&runOpts.Bold, "bold", false,
		"run unicycler in bold mode")
	cmd.Flags().BoolVar(&runOpts.Cleanup, "remove", false,
		"delete intermediate reads after collecting the assemblies")
	cmd.Flags().BoolVar(&runOpts.KeepGoing, "keep-going", false,
		"carry on with other samples when one fails")
	cmd.Flags().IntVarP(&runOpts.Threads, "threads", "t", 0,
		"threads for porechop and unicycler to use (default: PORECYCLER_THREADS, or their own default)")
}

// runPorecycler does a run, logging to the given transcript as well as the
// terminal.
func runPorecycler(ctx context.Context, c *config.Config, transcript io.Writer) error {
	cfg, load, err := prepareRun(ctx, c)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	appLogger = appLogger.New("run", runID)

	observers, finish, err := observersFor(c, runID)
	if err != nil {
		return err
	}

	defer finish()

	w := &workflow{
		cfg:  cfg,
		load: load,
		preflight: func() error {
			return executor.Preflight(pipeline.Programs(cfg)...)
		},
		exec: executor.New(&executor.ExecRunner{
			Stdout: io.MultiWriter(os.Stdout, transcript),
			Stderr: io.MultiWriter(os.Stderr, transcript),
		}),
		observers: observers,
		report:    !runNoReport,
	}

	result, err := w.run(ctx)
	if err != nil {
		return err
	}

	if result.TrimOnly {
		info("porechop complete; trimmed reads are in %s", cfg.OutputRoot)

		return nil
	}

	info("porecycler complete; assemblies are in %s", cfg.OutputRoot)

	return nil
}

// prepareRun checks our flags against the environment config, returning a
// loader for the manifest they specify.
func prepareRun(ctx context.Context, c *config.Config) (types.RunConfig, sampleLoader, error) {
	cfg, err := runConfig(c)
	if err != nil {
		return types.RunConfig{}, nil, err
	}

	load, err := manifestLoader(ctx, c, manifest.SchemaFor(cfg))
	if err != nil {
		return types.RunConfig{}, nil, err
	}

	return cfg, load, nil
}

func runConfig(c *config.Config) (types.RunConfig, error) {
	opts := runOpts

	if opts.Trimmer == "" {
		opts.Trimmer = c.Trimmer
	}

	if opts.Assembler == "" {
		opts.Assembler = c.Assembler
	}

	if opts.Threads == 0 {
		opts.Threads = c.Threads
	}

	return types.NewRunConfig(opts)
}

func manifestLoader(ctx context.Context, c *config.Config, schema manifest.Schema) (sampleLoader, error) {
	switch {
	case runInput != "" && runSheetID != "":
		return nil, ErrTwoManifests
	case runInput != "":
		return func() ([]*types.Sample, error) {
			return manifest.Load(runInput, schema)
		}, nil
	case runSheetID != "":
		if err := c.CheckSheets(); err != nil {
			return nil, err
		}

		return func() ([]*types.Sample, error) {
			return sheetManifest(ctx, c, schema)
		}, nil
	}

	return nil, ErrManifestRequired
}

func sheetManifest(ctx context.Context, c *config.Config, schema manifest.Schema) ([]*types.Sample, error) {
	creds, err := sheets.CredentialsFromFile(c.CredentialsPath)
	if err != nil {
		return nil, err
	}

	s, err := sheets.New(ctx, creds)
	if err != nil {
		return nil, err
	}

	return s.Manifest(runSheetID, runSheetName, schema)
}

// observersFor returns the Observers of a run: logging, and tracking if
// configured. Call the returned function after the run.
func observersFor(c *config.Config, runID string) ([]pipeline.Observer, func(), error) {
	observers := []pipeline.Observer{pipeline.ObserverFunc(logEvent)}

	if !c.TrackingEnabled() {
		return observers, func() {}, nil
	}

	if err := c.CheckTracking(); err != nil {
		return nil, nil, err
	}

	tracker, err := tracking.New(tracking.MySQLConfigFromConfig(c))
	if err != nil {
		return nil, nil, err
	}

	recorder, err := tracker.Begin(runID)
	if err != nil {
		tracker.Close()

		return nil, nil, err
	}

	info("recording progress in the tracking database")

	return append(observers, recorder), func() {
		if err := recorder.Err(); err != nil {
			warn("not all progress could be recorded in the tracking database: %s", err)
		}

		tracker.Close()
	}, nil
}

// logFailure logs the error that ended a run, along with any advice on
// fixing it.
func logFailure(err error) {
	appLogger.Error(err.Error())

	if advice := guidance(err); advice != "" {
		appLogger.Error(advice)
	}
}

func dieWithGuidance(err error) {
	logFailure(err)
	os.Exit(1)
}
