// Package logtail reads the tail of the airwaves log file for the UI's log
// view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries while scanning the file once, so
// memory stays proportional to the number of lines shown rather than the file
// size. Lines come back oldest first.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file yields no lines and no error: logrus creates the file on its
// first write, which may not have happened yet when the UI opens.
//
// # Levels
//
// The app writes logs with logrus' text formatter, so each record carries a
// level=... field. Read parses it into Line.Level, and AtLeast drops records
// below a threshold. The UI uses this to toggle between all records and
// warnings only. Lines without a recognisable level are treated as info.
//
// Colouring is left to the UI, which owns the theme.
package logtail
