package clog

import "github.com/fatih/color"
import "github.com/sirupsen/logrus"


type CustomLog struct {
	Name string
	entry *logrus.Entry
}

// colorFormatter renders entries as [module](time) Level: message key=value...
type colorFormatter struct {
	TimestampFormat string
}

const ModuleField = "module"
const TimestampFormat = "2006-01-02 15:04:05.000"

var levelColors = map[logrus.Level]*color.Color{
	logrus.DebugLevel: color.New(color.FgBlue, color.Bold),
	logrus.InfoLevel: color.New(color.FgGreen, color.Bold),
	logrus.WarnLevel: color.New(color.FgYellow, color.Bold),
	logrus.ErrorLevel: color.New(color.FgRed, color.Bold),
	logrus.FatalLevel: color.New(color.FgRed, color.Bold),
}
