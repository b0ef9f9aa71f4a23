package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Line is one log record as written by logrus' text formatter.
type Line struct {
	Text  string
	Level log.Level
}

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file is not an
// error; the log is created lazily on the first write.
func Read(path string, maxLines int) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []Line
		for scanner.Scan() {
			lines = append(lines, parse(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]Line, count)
	start := 0
	if count == maxLines {
		start = idx
	}
	for i := 0; i < count; i++ {
		lines[i] = parse(ring[(start+i)%maxLines])
	}
	return lines, nil
}

// AtLeast keeps the lines at min severity or worse. logrus orders levels from
// panic (0) to trace (6), so "worse" means numerically lower.
func AtLeast(lines []Line, min log.Level) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Level <= min {
			out = append(out, l)
		}
	}
	return out
}

func parse(text string) Line {
	return Line{Text: text, Level: levelOf(text)}
}

// levelOf extracts the level=... field. Lines without one, such as wrapped
// panics, count as info.
func levelOf(text string) log.Level {
	const key = "level="
	i := strings.Index(text, key)
	if i < 0 {
		return log.InfoLevel
	}
	value := text[i+len(key):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	level, err := log.ParseLevel(strings.Trim(value, `"`))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
