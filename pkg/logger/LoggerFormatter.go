package clog

import "bytes"
import "fmt"
import "sort"
import "strings"

import "github.com/fatih/color"
import "github.com/sirupsen/logrus"


//=========================================== Color Formatter


/*
	Format
		1.) pull the module name out of the entry fields
		2.) color the level name based on severity
		3.) append the remaining fields sorted by key so output is stable
*/

func (f *colorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	module, _ := entry.Data[ModuleField].(string)

	levelColor, ok := levelColors[entry.Level]
	if ! ok { levelColor = color.New(color.Reset) }

	levelName := strings.ToUpper(entry.Level.String()[:1]) + entry.Level.String()[1:]

	fmt.Fprintf(&buf, "[%s](%s) %s: %s", module, entry.Time.Format(f.TimestampFormat), levelColor.Sprint(levelName), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != ModuleField { keys = append(keys, key) }
	}

	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&buf, " %s=%v", key, entry.Data[key])
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
