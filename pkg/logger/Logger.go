package clog

import "fmt"
import "os"
import "strings"

import "github.com/sirupsen/logrus"


//=========================================== Custom Log


var base = newBaseLogger()

/*
	New Custom Log
		every module gets its own entry on the shared logrus logger, tagged with the module name
		so output from different modules can be told apart
*/

func NewCustomLog(name string) *CustomLog {
	return &CustomLog{
		Name: name,
		entry: base.WithField(ModuleField, name),
	}
}

/*
	Set Level
		parse a textual level (debug, info, warn, error) and apply it to every module logger
*/

func SetLevel(level string) error {
	parsed, parseErr := logrus.ParseLevel(level)
	if parseErr != nil { return parseErr }

	base.SetLevel(parsed)
	return nil
}

func (cLog *CustomLog) Debug(msg ...interface{}) {
	cLog.entry.Debug(joinMessage(msg))
}

func (cLog *CustomLog) Error(msg ...interface{}) {
	cLog.entry.Error(joinMessage(msg))
}

func (cLog *CustomLog) Info(msg ...interface{}) {
	cLog.entry.Info(joinMessage(msg))
}

func (cLog *CustomLog) Warn(msg ...interface{}) {
	cLog.entry.Warn(joinMessage(msg))
}

func (cLog *CustomLog) Fatal(msg ...interface{}) {
	cLog.entry.Fatal(joinMessage(msg))
}

// WithFields returns a logger for the same module that always attaches the given fields.
func (cLog *CustomLog) WithFields(fields map[string]interface{}) *CustomLog {
	return &CustomLog{
		Name: cLog.Name,
		entry: cLog.entry.WithFields(logrus.Fields(fields)),
	}
}

func newBaseLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&colorFormatter{ TimestampFormat: TimestampFormat })

	return logger
}

func joinMessage(msg []interface{}) string {
	chunks := make([]string, 0, len(msg))
	for _, chunk := range msg {
		chunks = append(chunks, fmt.Sprint(chunk))
	}

	return strings.Join(chunks, " ")
}
