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

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvVarTrimmer   = "PORECYCLER_PORECHOP_EXE"
	EnvVarAssembler = "PORECYCLER_UNICYCLER_EXE"
	EnvVarThreads   = "PORECYCLER_THREADS"
	EnvVarLogFile   = "PORECYCLER_LOG_FILE"
	EnvVarCreds     = "PORECYCLER_CREDENTIALS_FILE"
	EnvVarUser      = "PORECYCLER_SQL_USER"
	EnvVarPass      = "PORECYCLER_SQL_PASS"
	EnvVarHost      = "PORECYCLER_SQL_HOST"
	EnvVarPort      = "PORECYCLER_SQL_PORT"
	EnvVarDBName    = "PORECYCLER_SQL_DB"

	DefaultLogFile = "PoreCycler.log"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrBadThreads     = Error(EnvVarThreads + " must be a whole number, 0 or more")
	ErrNoCredentials  = Error(EnvVarCreds + " must be set to read manifests from Google sheets")
	ErrMissingSQLEnvs = Error("run tracking needs all of the " +
		EnvVarUser + ", " + EnvVarPass + ", " + EnvVarHost + ", " + EnvVarPort + " and " + EnvVarDBName +
		" environment variables")
)

type Config struct {
	Trimmer         string
	Assembler       string
	Threads         int
	LogFile         string
	CredentialsPath string
	User            string
	Password        string
	Host            string
	Port            string
	DBName          string
}

// FromEnv returns a new Config with properies populated from environment
// variables PORECYCLER_*, where * is amongst: PORECHOP_EXE, UNICYCLER_EXE,
// THREADS, LOG_FILE, CREDENTIALS_FILE, SQL_USER, SQL_PASS, SQL_HOST, SQL_PORT
// and SQL_DB. None are required; LOG_FILE defaults to DefaultLogFile.
//
// If these environment variables are defined in a file called .env (and not
// previously set in an environment variable), they will be automatically
// loaded.
//
// Optionally supply a directory to look for the .env file in.
func FromEnv(dir ...string) (*Config, error) {
	var parentDir string
	if len(dir) == 1 {
		parentDir = dir[0] + string(os.PathSeparator)
	}

	godotenv.Load(parentDir + ".env") //nolint:errcheck

	threads, err := threadsFromEnv()
	if err != nil {
		return nil, err
	}

	logFile := os.Getenv(EnvVarLogFile)
	if logFile == "" {
		logFile = DefaultLogFile
	}

	return &Config{
		Trimmer:         os.Getenv(EnvVarTrimmer),
		Assembler:       os.Getenv(EnvVarAssembler),
		Threads:         threads,
		LogFile:         logFile,
		CredentialsPath: os.Getenv(EnvVarCreds),
		User:            os.Getenv(EnvVarUser),
		Password:        os.Getenv(EnvVarPass),
		Host:            os.Getenv(EnvVarHost),
		Port:            os.Getenv(EnvVarPort),
		DBName:          os.Getenv(EnvVarDBName),
	}, nil
}

func threadsFromEnv() (int, error) {
	val := os.Getenv(EnvVarThreads)
	if val == "" {
		return 0, nil
	}

	threads, err := strconv.Atoi(val)
	if err != nil || threads < 0 {
		return 0, ErrBadThreads
	}

	return threads, nil
}

// CheckSheets returns an error if Google sheets can't be read with this
// Config.
func (c *Config) CheckSheets() error {
	if c.CredentialsPath == "" {
		return ErrNoCredentials
	}

	return nil
}

// TrackingEnabled returns true if any of the SQL settings have been set, in
// which case they all must be, as checked by CheckTracking().
func (c *Config) TrackingEnabled() bool {
	return c.User != "" || c.Password != "" || c.Host != "" || c.Port != "" || c.DBName != ""
}

// CheckTracking returns an error if some, but not all, of the SQL settings
// have been set.
func (c *Config) CheckTracking() error {
	if !c.TrackingEnabled() {
		return nil
	}

	if c.User == "" || c.Password == "" || c.Host == "" || c.Port == "" || c.DBName == "" {
		return ErrMissingSQLEnvs
	}

	return nil
}
