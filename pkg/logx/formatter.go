package logx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Formatter is the interface for log formatters
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

// LogEntry represents a single log entry
type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// consoleFormatter renders "time | LEVEL | message | k=v ..." lines.
type consoleFormatter struct {
	timeFormat string
}

func (f *consoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(entry.Timestamp.Format(f.timeFormat))
	buf.WriteString(" | ")
	fmt.Fprintf(&buf, "%-5s", entry.Level.String())
	buf.WriteString(" | ")
	buf.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, entry.Fields[k])
		}
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// jsonFormatter renders one JSON object per line.
type jsonFormatter struct {
	timeFormat string
}

func (f *jsonFormatter) Format(entry *LogEntry) ([]byte, error) {
	payload := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		payload[k] = v
	}
	payload["time"] = entry.Timestamp.Format(f.timeFormat)
	payload["level"] = entry.Level.String()
	payload["message"] = entry.Message

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
