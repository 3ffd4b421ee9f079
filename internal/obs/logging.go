// Package obs carries this module's ambient logging and metrics stack:
// one named github.com/op/go-logging logger per component, installed with
// a stderr backend by each cmd/'s main(), plus the Prometheus collectors
// SPEC_FULL.md §4.M calls for.
package obs

import (
	"os"

	"github.com/op/go-logging"
)

var stderrFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} %{module} ▶ %{message}`,
)

// loggers holds the one named logger per package SPEC_FULL.md §4.M lists,
// obtained once at package init and shared by every cmd/.
var loggers = map[string]*logging.Logger{
	"odvd":              logging.MustGetLogger("odvd"),
	"wire":              logging.MustGetLogger("wire"),
	"genericmessage":    logging.MustGetLogger("genericmessage"),
	"shmem":             logging.MustGetLogger("shmem"),
	"udp":               logging.MustGetLogger("udp"),
	"cluon-msc":         logging.MustGetLogger("cluon-msc"),
	"cluon-LCMtoJSON":   logging.MustGetLogger("cluon-LCMtoJSON"),
	"cluon-UDPReceiver": logging.MustGetLogger("cluon-UDPReceiver"),
}

// For returns the named logger for one of this module's components or
// commands. It never returns nil: an unrecognized name still gets a
// logger, just one not pre-registered in the table above.
func For(name string) *logging.Logger {
	if l, ok := loggers[name]; ok {
		return l
	}
	return logging.MustGetLogger(name)
}

// SetupLogging installs a leveled stderr backend shared by every named
// logger in this process, following kryptco-kr's SetupLogging shape: a
// default level overridable by CLUON_LOG_LEVEL, no syslog path since none
// of this module's commands run as a system daemon.
func SetupLogging(defaultLevel logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, stderrFormat)
	leveled := logging.AddModuleLevel(formatted)

	level := defaultLevel
	switch os.Getenv("CLUON_LOG_LEVEL") {
	case "CRITICAL":
		level = logging.CRITICAL
	case "ERROR":
		level = logging.ERROR
	case "WARNING":
		level = logging.WARNING
	case "NOTICE":
		level = logging.NOTICE
	case "INFO":
		level = logging.INFO
	case "DEBUG":
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "")

	logging.SetBackend(leveled)
}
