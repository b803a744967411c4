package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// JSONFormatter formats log entries as JSON.
type JSONFormatter struct {
	TimestampFormat string
}

// Format formats the entry as a single JSON object per line.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := time.RFC3339
	if f.TimestampFormat != "" {
		tsFormat = f.TimestampFormat
	}

	data := make(map[string]interface{}, len(entry.Fields)+3)
	data["timestamp"] = entry.Timestamp.Format(tsFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	for k, v := range entry.Fields {
		if k != "timestamp" && k != "level" && k != "message" {
			data[k] = v
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// TextFormatter formats log entries as human-readable text.
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// Format formats the entry as a single text line with sorted key=value fields.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := "2006-01-02T15:04:05.000"
	if f.TimestampFormat != "" {
		tsFormat = f.TimestampFormat
	}

	var sb strings.Builder
	if !f.DisableTimestamp {
		sb.WriteString(entry.Timestamp.Format(tsFormat))
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "[%s] %s", entry.Level.String(), entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, entry.Fields[k])
		}
	}
	sb.WriteByte('\n')

	return []byte(sb.String()), nil
}
