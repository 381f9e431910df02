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

package tracking

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/porecycler/config"
	"github.com/wtsi-hgi/porecycler/pipeline"
)

type fakeDB struct {
	args [][]any
	err  error
}

func (f *fakeDB) Exec(_ string, args ...any) (sql.Result, error) {
	f.args = append(f.args, args)

	return nil, f.err
}

func TestRecorder(t *testing.T) {
	Convey("MySQLConfigFromConfig() uses the SQL settings", t, func() {
		mc := MySQLConfigFromConfig(&config.Config{
			User:     "user",
			Password: "pass",
			Host:     "host",
			Port:     "1234",
			DBName:   "db",
		})

		So(mc.User, ShouldEqual, "user")
		So(mc.Passwd, ShouldEqual, "pass")
		So(mc.Net, ShouldEqual, "tcp")
		So(mc.Addr, ShouldEqual, "host:1234")
		So(mc.DBName, ShouldEqual, "db")
		So(mc.ParseTime, ShouldBeTrue)
	})

	Convey("Given a Recorder", t, func() {
		db := &fakeDB{}
		r := NewRecorder(db, "run1")
		when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		r.now = func() time.Time { return when }

		Convey("It stores every event it observes", func() {
			r.Observe(pipeline.Event{Stage: pipeline.StageTrim, Status: pipeline.StatusStarted})
			r.Observe(pipeline.Event{
				Stage:      pipeline.StageTrim,
				Sample:     "NB01_SampleA",
				Status:     pipeline.StatusRunning,
				Invocation: "porechop -i in -b out",
			})
			r.Observe(pipeline.Event{
				Stage:  pipeline.StageTrim,
				Sample: "NB01_SampleA",
				Status: pipeline.StatusFailed,
				Err:    errors.New("porechop exited with status 1"),
			})

			So(db.args, ShouldResemble, [][]any{
				{"run1", when, "trim", "", "started", ""},
				{"run1", when, "trim", "NB01_SampleA", "running", "porechop -i in -b out"},
				{"run1", when, "trim", "NB01_SampleA", "failed", "porechop exited with status 1"},
			})
			So(r.Err(), ShouldBeNil)
		})

		Convey("It remembers the first failure to store an event", func() {
			db.err = errors.New("gone away")
			r.Observe(pipeline.Event{Stage: pipeline.StageTrim, Status: pipeline.StatusStarted})

			db.err = errors.New("still gone")
			r.Observe(pipeline.Event{Stage: pipeline.StageTrim, Status: pipeline.StatusDone})

			So(db.args, ShouldHaveLength, 2)
			So(r.Err(), ShouldNotBeNil)
			So(r.Err().Error(), ShouldEqual, "gone away")
		})
	})
}

func TestTracker(t *testing.T) {
	c, err := config.FromEnv("..")
	if err != nil || !c.TrackingEnabled() || c.CheckTracking() != nil {
		SkipConvey("skipping tracking tests without PORECYCLER_SQL_* set", t, func() {})

		return
	}

	Convey("Given a working New Tracker", t, func() {
		tracker, err := New(MySQLConfigFromConfig(c))
		So(err, ShouldBeNil)
		So(tracker, ShouldNotBeNil)

		defer tracker.Close()

		Convey("You can record the events of a run and get them back", func() {
			runID := uuid.NewString()

			r, err := tracker.Begin(runID)
			So(err, ShouldBeNil)

			r.Observe(pipeline.Event{Stage: pipeline.StageAssemble, Status: pipeline.StatusStarted})
			r.Observe(pipeline.Event{Stage: pipeline.StageAssemble, Sample: "NB01_A", Status: pipeline.StatusDone})
			So(r.Err(), ShouldBeNil)

			records, err := tracker.Events(runID)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0].Stage, ShouldEqual, "assemble")
			So(records[0].Status, ShouldEqual, "started")
			So(records[1].Sample, ShouldEqual, "NB01_A")

			records, err = tracker.Events(uuid.NewString())
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}
