/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
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
	"bytes"
	"fmt"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

// appLogger is used for logging events in our commands.
var appLogger = log15.New()

// global options.
var (
	apiURLFlag  string
	tokenDBFlag string
	timeoutFlag string
	journalFlag string
	logFile     string
	verbose     bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "clinicsync",
	Short: "clinicsync is a command-line client for a dental clinic's API.",
	Long: `clinicsync is a command-line client for a dental clinic's API.

Start with 'login' (or 'register'); your token is remembered between runs until
you 'logout'. Then you can list and change patients, appointments, treatment
plans, inventory and staff, see the 'dashboard', or 'watch' it update.

The API's base URL must be given with --api or the CLINIC_API_URL environment
variable. All settings can also be given in a .env or .env.local file in the
current directory; these never override variables already set in the
environment, and flags override both.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		loadDotEnv()

		if logFile != "" {
			logToFile(logFile)
		} else {
			setCLIFormat()
		}
	},
}

func init() {
	// set up logging to stderr
	appLogger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StderrHandler))

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&apiURLFlag, "api", "", "base URL of the clinic API [$"+envAPIURL+"]")
	pf.StringVar(&tokenDBFlag, "token_db", "", "path to the token database (default ~/.clinicsync.db) [$"+envTokenDB+"]")
	pf.StringVar(&timeoutFlag, "timeout", "", "timeout for each API request (default 30s) [$"+envTimeout+"]")
	pf.StringVar(&journalFlag, "journal", "", "record sync events to this sqlite database [$"+envJournal+"]")
	pf.StringVar(&logFile, "log_file", "", "log to this file instead of STDERR")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log each background fetch")
}

// cliPrint outputs the message to STDOUT.
func cliPrint(msg string, a ...any) {
	fmt.Fprintf(os.Stdout, msg, a...)
}

// info is a convenience to log a message at the Info level.
func info(msg string, a ...any) {
	appLogger.Info(fmt.Sprintf(msg, a...))
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once to
// the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		die("%s", err.Error())
	}
}

// die is a convenience to log a message at the Error level and exit non zero.
func die(msg string, a ...any) {
	appLogger.Error(fmt.Sprintf(msg, a...))
	os.Exit(1)
}

// logToFile logs to the given file.
func logToFile(path string) {
	fh, err := log15.FileHandler(path, log15.LogfmtFormat())
	if err != nil {
		warn("Could not log to file [%s]: %s", path, err)

		return
	}

	appLogger.SetHandler(levelFilter(fh))
}

// warn is a convenience to log a message at the Warn level.
func warn(msg string, a ...any) {
	appLogger.Warn(fmt.Sprintf(msg, a...))
}

// setCLIFormat logs plain text log messages to STDERR.
func setCLIFormat() {
	appLogger.SetHandler(levelFilter(log15.StreamHandler(os.Stderr, cliFormat())))
}

func levelFilter(h log15.Handler) log15.Handler { //nolint:ireturn
	lvl := log15.LvlInfo
	if verbose {
		lvl = log15.LvlDebug
	}

	return log15.LvlFilterHandler(lvl, h)
}

// cliFormat returns a log15.Format that prints the log msg followed by any
// context as key=value pairs.
func cliFormat() log15.Format { //nolint:ireturn
	return log15.FormatFunc(func(r *log15.Record) []byte {
		b := &bytes.Buffer{}
		b.WriteString(r.Msg)

		for i := 0; i+1 < len(r.Ctx); i += 2 {
			fmt.Fprintf(b, " %v=%v", r.Ctx[i], r.Ctx[i+1])
		}

		b.WriteByte('\n')

		return b.Bytes()
	})
}
