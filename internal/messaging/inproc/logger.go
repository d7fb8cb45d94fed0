package inproc

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
)

// logrusAdapter routes watermill's internal logging through logrus.
type logrusAdapter struct {
	log logrus.FieldLogger
}

func newLogrusAdapter(log logrus.FieldLogger) watermill.LoggerAdapter {
	return logrusAdapter{log: log}
}

func (a logrusAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.WithFields(logrus.Fields(fields)).WithError(err).Error(msg)
}

func (a logrusAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.WithFields(logrus.Fields(fields)).Info(msg)
}

func (a logrusAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (a logrusAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.WithFields(logrus.Fields(fields)).Trace(msg)
}

func (a logrusAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return logrusAdapter{log: a.log.WithFields(logrus.Fields(fields))}
}
