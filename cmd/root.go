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

// package cmd is the cobra file that enables subcommands and handles
// command-line args.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

type Error string

func (e Error) Error() string { return string(e) }

const userPerm = 0644

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "porecycler",
	Short: "porecycler trims and assembles barcoded MinION reads",
	Long: `porecycler trims and assembles barcoded MinION reads.

Given a manifest of your samples and the directory of reads produced by your
basecaller, porecycler concatenates each barcode's reads, trims and
demultiplexes them with porechop, assembles them with unicycler (optionally
with Illumina reads for a hybrid assembly), and collects the assembly graphs,
FASTA files and logs in to a tidy output directory.

Use the "plan" sub-command to see what a "run" would do, and the "report"
sub-command to summarise the assemblies of an earlier run.
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once to
// the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die("%s", err.Error())
	}
}

func init() {
	// set up logging to stderr
	appLogger.SetHandler(stderrHandler())
}

func stderrHandler() log15.Handler {
	return log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler)
}

// startTranscript makes appLogger log to the given file as well as stderr,
// without any colours, replacing anything already in the file. It returns a
// writer that will also write to the file with colours removed, and a
// function to close the file with.
func startTranscript(path string) (io.Writer, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, userPerm)
	if err != nil {
		return nil, nil, err
	}

	transcript := ansiStripper{w: f}

	appLogger.SetHandler(log15.MultiHandler(
		stderrHandler(),
		log15.LvlFilterHandler(log15.LvlInfo, log15.StreamHandler(transcript, log15.LogfmtFormat())),
	))

	return transcript, func() {
		appLogger.SetHandler(stderrHandler())
		f.Close()
	}, nil
}

// ansiStripper is an io.Writer that removes ANSI escape sequences before
// writing to w.
type ansiStripper struct {
	w io.Writer
}

func (s ansiStripper) Write(p []byte) (int, error) {
	if _, err := io.WriteString(s.w, ansi.Strip(string(p))); err != nil {
		return 0, err
	}

	return len(p), nil
}

// cliPrint outputs the message to STDOUT.
func cliPrint(msg string, a ...any) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// cliPrintRaw is like cliPrint, but does no interpretation of placeholders in
// msg.
func cliPrintRaw(msg string) {
	fmt.Fprint(os.Stdout, msg)
}

// info is a convenience to log a message at the Info level.
func info(msg string, a ...any) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// warn is a convenience to log a message at the Warn level.
func warn(msg string, a ...any) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// die is a convenience to log a message at the Error level and exit non zero.
func die(msg string, a ...any) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}

func markFlagRequired(cmd *cobra.Command, flagName string) {
	if err := cmd.MarkFlagRequired(flagName); err != nil {
		die("%s", err)
	}
}
