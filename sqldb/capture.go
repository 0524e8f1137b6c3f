package sqldb

import (
	"bufio"
	"bytes"
)

// SQLLogContext buffers the foreground session's SQL trace for its
// lifetime. Release restores the session's nil trace sink and emits the
// buffered statements to the log, framed by banner lines carrying the
// capture label. It is safe to call Release more than once; only the first
// call emits.
type SQLLogContext struct {
	label    string
	db       *DB
	buf      bytes.Buffer
	released bool
}

// CaptureSQL begins a capture of the foreground session's SQL under
// |label|. Captures do not nest: a second capture while one is active is
// an error. Like the statement cache, captures are only safe from the
// foreground session's owner.
func (db *DB) CaptureSQL(label string) (*SQLLogContext, error) {
	if db.capturing {
		return nil, NewErr(ExecuteFailed, "a SQL capture is already active (label %q)", label)
	}
	var c = &SQLLogContext{label: label, db: db}
	db.capturing = true
	db.session.setTrace(&c.buf)
	return c, nil
}

// Release ends the capture and emits the buffered SQL.
func (c *SQLLogContext) Release() {
	if c.released {
		return
	}
	c.released = true
	c.db.session.setTrace(nil)
	c.db.capturing = false

	dbLog.Info("[SQL] -----------------------")
	dbLog.Infof("[SQL] begin capture: %s", c.label)
	dbLog.Info("[SQL] -----------------------")

	var lines = bufio.NewScanner(&c.buf)
	for lines.Scan() {
		dbLog.Infof("[SQL:%s] %s", c.label, lines.Text())
	}

	dbLog.Info("[SQL] -----------------------")
	dbLog.Infof("[SQL] end capture: %s", c.label)
	dbLog.Info("[SQL] -----------------------")
}
