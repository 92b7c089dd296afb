package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger instances provide leveled logging to the dispatch driver and can
// be replaced by custom implementations.
type Logger interface {
	Error(...interface{})
	Errorf(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Debug(...interface{})
	Debugf(string, ...interface{})

	WithFields(map[string]interface{}) Logger
}

// DefaultLog provides a default implementation of the Logger interface on
// top of the standard logrus logger.
type DefaultLog struct {
	fields map[string]interface{}
}

// New creates a Logger writing through the standard logrus logger.
func New() *DefaultLog {
	return &DefaultLog{}
}

func (dl *DefaultLog) entry() *logrus.Entry {
	return logrus.StandardLogger().WithFields(dl.fields)
}

func (dl *DefaultLog) Error(a ...interface{})            { dl.entry().Error(a...) }
func (dl *DefaultLog) Errorf(f string, a ...interface{}) { dl.entry().Errorf(f, a...) }
func (dl *DefaultLog) Warn(a ...interface{})             { dl.entry().Warn(a...) }
func (dl *DefaultLog) Warnf(f string, a ...interface{})  { dl.entry().Warnf(f, a...) }
func (dl *DefaultLog) Info(a ...interface{})             { dl.entry().Info(a...) }
func (dl *DefaultLog) Infof(f string, a ...interface{})  { dl.entry().Infof(f, a...) }
func (dl *DefaultLog) Debug(a ...interface{})            { dl.entry().Debug(a...) }
func (dl *DefaultLog) Debugf(f string, a ...interface{}) { dl.entry().Debugf(f, a...) }

func (dl *DefaultLog) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(dl.fields)+len(fields))
	for k, v := range dl.fields {
		merged[k] = v
	}

	for k, v := range fields {
		merged[k] = v
	}

	return &DefaultLog{fields: merged}
}
