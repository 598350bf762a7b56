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

package cmd

import (
	"os"
	"testing"
	"time"

	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfig(t *testing.T) {
	Convey("Flags take precedence over env vars", t, func() {
		t.Setenv(envAPIURL, "http://from-env")

		So(flagOrEnv(" http://from-flag ", envAPIURL), ShouldEqual, "http://from-flag")
		So(flagOrEnv("", envAPIURL), ShouldEqual, "http://from-env")

		t.Setenv(envAPIURL, "")

		_, err := requiredFlagOrEnv("", envAPIURL, errAPIURLRequired)
		So(err, ShouldEqual, errAPIURLRequired)
	})

	Convey("Durations come from flags, then env vars, then the default", t, func() {
		t.Setenv(envPollInterval, "")

		d, err := pollIntervalFromFlagOrEnv("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, time.Minute)

		t.Setenv(envPollInterval, "5s")

		d, err = pollIntervalFromFlagOrEnv("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, 5*time.Second)

		d, err = pollIntervalFromFlagOrEnv("2m")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, 2*time.Minute)

		_, err = pollIntervalFromFlagOrEnv("soon")
		So(err, ShouldNotBeNil)

		t.Setenv(envPollInterval, "often")

		_, err = pollIntervalFromFlagOrEnv("")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, envPollInterval)
	})

	Convey("Settings can come from .env files without overriding the environment", t, func() {
		t.Chdir(t.TempDir())

		So(os.WriteFile(".env", []byte(envAPIURL+"=http://dotenv\n"+envJournal+"=dotenv.db\n"+
			envTimeout+"=10s\nUNRELATED=1\n"), 0600), ShouldBeNil)
		So(os.WriteFile(".env.local", []byte(envJournal+"=local.db\n"), 0600), ShouldBeNil)

		for _, key := range []string{envAPIURL, envJournal} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		t.Setenv(envTimeout, "20s")
		t.Setenv(envTokenDB, "token.db")

		loadDotEnv()

		So(os.Getenv(envAPIURL), ShouldEqual, "http://dotenv")
		So(os.Getenv(envJournal), ShouldEqual, "local.db")
		So(os.Getenv(envTimeout), ShouldEqual, "20s")
		So(os.Getenv("UNRELATED"), ShouldBeBlank)

		cfg, err := configFromEnvAndFlags()
		So(err, ShouldBeNil)
		So(cfg.apiURL, ShouldEqual, "http://dotenv")
		So(cfg.journal, ShouldEqual, "local.db")
		So(cfg.tokenDB, ShouldEqual, "token.db")
		So(cfg.timeout, ShouldEqual, 20*time.Second)
	})
}

func TestOutput(t *testing.T) {
	Convey("Dates must be YYYY-MM-DD", t, func() {
		ts, err := parseDate("dob", "1990-05-01")
		So(err, ShouldBeNil)
		So(string(ts), ShouldEqual, "1990-05-01")

		_, err = parseDate("dob", "01/05/1990")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "--dob")
	})

	Convey("requireFlags names the first missing flag alphabetically", t, func() {
		So(requireFlags(map[string]string{"a": "1", "b": "2"}), ShouldBeNil)
		So(requireFlags(map[string]string{"z": "", "b": "", "a": "1"}), ShouldEqual, Error("--b is required"))
	})

	Convey("Amounts are formatted for humans", t, func() {
		So(money(1500), ShouldEqual, "$1,500")
		So(money(12.5), ShouldEqual, "$12.5")
		So(count(1234567), ShouldEqual, "1,234,567")
		So(date("2026-01-31T10:00:00Z"), ShouldEqual, "2026-01-31")
		So(date("whenever"), ShouldEqual, "whenever")
		So(relativeTime(time.Time{}), ShouldEqual, "never")
	})

	Convey("The CLI log format shows the message and its context", t, func() {
		r := &log15.Record{Msg: "fetch failed", Ctx: []any{"resource", "patients", "err", "boom"}}
		So(string(cliFormat().Format(r)), ShouldEqual, "fetch failed resource=patients err=boom\n")
	})
}
