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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const filePerm = 0644

func TestConfig(t *testing.T) {
	Convey("Given a full set of env vars, you can make a config", t, func() {
		t.Chdir(t.TempDir())

		t.Setenv(EnvVarTrimmer, "/opt/porechop")
		t.Setenv(EnvVarAssembler, "/opt/unicycler")
		t.Setenv(EnvVarThreads, "8")
		t.Setenv(EnvVarLogFile, "run.log")
		t.Setenv(EnvVarCreds, "/path/credentials.json")
		t.Setenv(EnvVarUser, "user")
		t.Setenv(EnvVarPass, "pass")
		t.Setenv(EnvVarHost, "host")
		t.Setenv(EnvVarPort, "1234")
		t.Setenv(EnvVarDBName, "db")

		config, err := FromEnv()
		So(err, ShouldBeNil)
		So(config, ShouldResemble, &Config{
			Trimmer:         "/opt/porechop",
			Assembler:       "/opt/unicycler",
			Threads:         8,
			LogFile:         "run.log",
			CredentialsPath: "/path/credentials.json",
			User:            "user",
			Password:        "pass",
			Host:            "host",
			Port:            "1234",
			DBName:          "db",
		})
		So(config.CheckSheets(), ShouldBeNil)
		So(config.TrackingEnabled(), ShouldBeTrue)
		So(config.CheckTracking(), ShouldBeNil)

		Convey("Without any env vars you get defaults", func() {
			for _, key := range []string{
				EnvVarTrimmer, EnvVarAssembler, EnvVarThreads, EnvVarLogFile, EnvVarCreds,
				EnvVarUser, EnvVarPass, EnvVarHost, EnvVarPort, EnvVarDBName,
			} {
				t.Setenv(key, "")
			}

			config, err = FromEnv()
			So(err, ShouldBeNil)
			So(config, ShouldResemble, &Config{LogFile: DefaultLogFile})
			So(config.CheckSheets(), ShouldEqual, ErrNoCredentials)
			So(config.TrackingEnabled(), ShouldBeFalse)
			So(config.CheckTracking(), ShouldBeNil)
		})

		Convey("A partial set of SQL env vars is an error", func() {
			t.Setenv(EnvVarUser, "")

			config, err = FromEnv()
			So(err, ShouldBeNil)
			So(config.TrackingEnabled(), ShouldBeTrue)
			So(config.CheckTracking(), ShouldEqual, ErrMissingSQLEnvs)
		})

		Convey("Bad thread counts are an error", func() {
			t.Setenv(EnvVarThreads, "many")

			config, err = FromEnv()
			So(err, ShouldEqual, ErrBadThreads)
			So(config, ShouldBeNil)

			t.Setenv(EnvVarThreads, "-1")

			_, err = FromEnv()
			So(err, ShouldEqual, ErrBadThreads)
		})

		Convey("You can load values from an .env file", func() {
			t.Setenv(EnvVarUser, "")
			os.Unsetenv(EnvVarUser)
			os.Unsetenv(EnvVarThreads)

			err = os.WriteFile(".env",
				[]byte(EnvVarUser+"=fileuser\n"+EnvVarDBName+"=filedb\n"+EnvVarThreads+"=2"), filePerm)
			So(err, ShouldBeNil)

			config, err = FromEnv()
			So(err, ShouldBeNil)
			So(config.User, ShouldEqual, "fileuser")
			So(config.Threads, ShouldEqual, 2)
			So(config.DBName, ShouldEqual, "db")
			So(config.Host, ShouldEqual, "host")

			Convey("or from an .env file in another directory", func() {
				dir := t.TempDir()
				os.Unsetenv(EnvVarUser)

				err = os.WriteFile(dir+"/.env", []byte(EnvVarUser+"=otheruser\n"), filePerm)
				So(err, ShouldBeNil)

				config, err = FromEnv(dir)
				So(err, ShouldBeNil)
				So(config.User, ShouldEqual, "otheruser")
			})
		})
	})
}
