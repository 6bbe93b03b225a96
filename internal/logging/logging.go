// Package logging configures the single logrus logger warmer's
// components share. Grounded on the teacher's `log "github.com/
// sirupsen/logrus"` alias and per-run `log.New()` + `SetLevel` pattern in
// internal/vm/machine_linux.go, generalized into a package-level logger
// so every component logs through the same configured sink instead of
// each constructing its own.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"
)

var log = logrus.New()

// Init configures the shared logger. debug raises the level to Debug;
// otherwise it stays at Info. syslog, when true and supported, mirrors
// log output to the local system logger in addition to stderr — a
// best-effort addition that never fails the run if the syslog daemon is
// unreachable.
func Init(debug, syslog bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if syslog {
		hook, err := lsyslog.NewSyslogHook("", "", 0, "warmer")
		if err != nil {
			log.WithError(err).Warn("syslog hook unavailable, continuing with stderr only")
			return
		}
		log.AddHook(hook)
	}
}

// Logger returns the shared *logrus.Logger for components that want to
// attach fields (WithField, WithError) before logging.
func Logger() *logrus.Logger { return log }

func Debugf(format string, args ...any) { log.Debugf(format, args...) }
func Infof(format string, args ...any)  { log.Infof(format, args...) }
func Warnf(format string, args ...any)  { log.Warnf(format, args...) }
func Errorf(format string, args ...any) { log.Errorf(format, args...) }
