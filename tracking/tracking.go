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

// package tracking records the progress of runs in a MySQL database.

package tracking

import (
	"database/sql"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/wtsi-hgi/porecycler/config"
	"github.com/wtsi-hgi/porecycler/pipeline"
)

const (
	sqlDriverName   = "mysql"
	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS porecycler_events (
id BIGINT AUTO_INCREMENT PRIMARY KEY,
run_id CHAR(36) NOT NULL,
recorded_at DATETIME(6) NOT NULL,
stage VARCHAR(32) NOT NULL,
sample VARCHAR(255) NOT NULL,
status VARCHAR(16) NOT NULL,
detail TEXT NOT NULL,
INDEX (run_id)
)
`

const insertEvent = `
INSERT INTO porecycler_events (run_id, recorded_at, stage, sample, status, detail)
VALUES (?, ?, ?, ?, ?, ?)
`

const getEvents = `
SELECT recorded_at, stage, sample, status, detail
FROM porecycler_events
WHERE run_id = ?
ORDER BY id
`

// MySQLConfigFromConfig returns a mysql.Config for the database given by the
// SQL settings in the Config.
func MySQLConfigFromConfig(c *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName
	mc.ParseTime = true

	return mc
}

// Tracker is a connection to the run tracking database.
type Tracker struct {
	pool *sql.DB
}

// New returns a new Tracker connection using a mysql.Config that you can get
// from MySQLConfigFromConfig(config.FromEnv()).
func New(c *mysql.Config) (*Tracker, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &Tracker{pool: pool}, pool.Ping()
}

// Begin makes sure the events table exists, and returns a Recorder that will
// store the events of the run with the given ID.
func (t *Tracker) Begin(runID string) (*Recorder, error) {
	if _, err := t.pool.Exec(createEventsTable); err != nil {
		return nil, err
	}

	return NewRecorder(t.pool, runID), nil
}

// Record is a stored pipeline.Event.
type Record struct {
	RecordedAt time.Time
	Stage      string
	Sample     string
	Status     string
	Detail     string
}

// Events returns the Records of the run with the given ID, in the order they
// happened.
func (t *Tracker) Events(runID string) ([]Record, error) {
	rows, err := t.pool.Query(getEvents, runID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var records []Record

	for rows.Next() {
		var record Record

		if err := rows.Scan(
			&record.RecordedAt,
			&record.Stage,
			&record.Sample,
			&record.Status,
			&record.Detail,
		); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Close closes the connection to the database.
func (t *Tracker) Close() error {
	return t.pool.Close()
}

// Execer is the part of *sql.DB that a Recorder needs.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Recorder is a pipeline.Observer that stores every Event it sees.
type Recorder struct {
	db    Execer
	runID string
	now   func() time.Time

	mu  sync.Mutex
	err error
}

// NewRecorder returns a Recorder that stores events for the given run using
// the given db.
func NewRecorder(db Execer, runID string) *Recorder {
	return &Recorder{db: db, runID: runID, now: time.Now}
}

// Observe stores the Event. Failures don't stop the run; the first one is
// kept for Err().
func (r *Recorder) Observe(e pipeline.Event) {
	_, err := r.db.Exec(insertEvent, r.runID, r.now().UTC(), e.Stage.String(), e.Sample, string(e.Status), detail(e))
	if err == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err == nil {
		r.err = err
	}
}

func detail(e pipeline.Event) string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Invocation
}

// Err returns the first error encountered while storing events.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}
