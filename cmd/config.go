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
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/session"
	"github.com/dentflow/clinicsync/watch"
	"github.com/joho/godotenv"
)

const (
	envAPIURL       = "CLINIC_API_URL"
	envTokenDB      = "CLINIC_TOKEN_DB"
	envTimeout      = "CLINIC_TIMEOUT"
	envPollInterval = "CLINIC_POLL_INTERVAL"
	envJournal      = "CLINIC_JOURNAL"
)

var errAPIURLRequired = errors.New("API base URL required: use --api or set " + envAPIURL)

var dotEnvKeys = []string{ //nolint:gochecknoglobals
	envAPIURL,
	envTokenDB,
	envTimeout,
	envPollInterval,
	envJournal,
}

// config holds the settings every command that talks to the API needs.
type config struct {
	apiURL  string
	tokenDB string
	journal string
	timeout time.Duration
}

func loadDotEnv() {
	orig := originalEnvKeys(dotEnvKeys)

	loadDotEnvFile(".env", orig)
	loadDotEnvFile(".env.local", orig)
}

func originalEnvKeys(keys []string) map[string]struct{} {
	orig := map[string]struct{}{}

	for _, key := range keys {
		if _, ok := os.LookupEnv(key); ok {
			orig[key] = struct{}{}
		}
	}

	return orig
}

// loadDotEnvFile sets our env vars from the given file, except those that were
// set before we started. Later files override earlier ones.
func loadDotEnvFile(path string, orig map[string]struct{}) {
	env, err := godotenv.Read(path)
	if err != nil {
		return
	}

	for _, key := range dotEnvKeys {
		val, ok := env[key]
		if !ok {
			continue
		}

		if _, ok := orig[key]; ok {
			continue
		}

		_ = os.Setenv(key, val)
	}
}

func configFromEnvAndFlags() (config, error) {
	apiURL, err := requiredFlagOrEnv(apiURLFlag, envAPIURL, errAPIURLRequired)
	if err != nil {
		return config{}, err
	}

	tokenDB := flagOrEnv(tokenDBFlag, envTokenDB)
	if tokenDB == "" {
		if tokenDB, err = session.DefaultTokenDBPath(); err != nil {
			return config{}, err
		}
	}

	timeout, err := parseDurationFlagOrEnv(timeoutFlag, envTimeout, api.DefaultTimeout)
	if err != nil {
		return config{}, err
	}

	return config{
		apiURL:  apiURL,
		tokenDB: tokenDB,
		journal: journalPath(),
		timeout: timeout,
	}, nil
}

func journalPath() string {
	return flagOrEnv(journalFlag, envJournal)
}

func pollIntervalFromFlagOrEnv(flagValue string) (time.Duration, error) {
	return parseDurationFlagOrEnv(flagValue, envPollInterval, watch.DefaultInterval)
}

func flagOrEnv(flagValue, envKey string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}

	return strings.TrimSpace(os.Getenv(envKey))
}

func requiredFlagOrEnv(flagValue string, envKey string, missing error) (string, error) {
	v := flagOrEnv(flagValue, envKey)
	if v == "" {
		return "", missing
	}

	return v, nil
}

func parseDurationFlagOrEnv(flagValue string, envKey string, defaultValue time.Duration) (time.Duration, error) {
	if strings.TrimSpace(flagValue) != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %q: %w", envKey, err)
		}

		return d, nil
	}

	v := strings.TrimSpace(os.Getenv(envKey))
	if v == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", envKey, err)
	}

	return d, nil
}
