package dispatch

import (
	"github.com/sirupsen/logrus"
)

// Reporter receives each outcome as soon as the record finishes.
type Reporter interface {
	Report(o Outcome)
}

type ReporterFunc func(o Outcome)

func (f ReporterFunc) Report(o Outcome) { f(o) }

type multiReporter []Reporter

func (m multiReporter) Report(o Outcome) {
	for _, r := range m {
		r.Report(o)
	}
}

// Reporters fans one outcome out to every reporter in order. Nil entries are
// skipped.
func Reporters(rs ...Reporter) Reporter {
	out := make(multiReporter, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// LogReporter writes one status line per record.
func LogReporter(log logrus.FieldLogger) Reporter {
	return ReporterFunc(func(o Outcome) {
		entry := log.WithFields(logrus.Fields{
			"runId": o.RunID,
			"row":   o.Row,
			"name":  o.Name,
		})
		if o.Email != "" {
			entry = entry.WithField("email", o.Email)
		}
		if len(o.Warnings) > 0 {
			entry = entry.WithField("warnings", o.Warnings)
		}
		switch o.Status {
		case StatusSent:
			entry.WithField("file", o.File).Info("payslip sent")
		case StatusNoAddress:
			entry.Warn("no email address on file, payslip skipped")
		case StatusRenderFailed:
			entry.WithField("err", o.Error).Error("payslip render failed")
		case StatusSendFailed:
			entry.WithFields(logrus.Fields{"file": o.File, "err": o.Error}).Error("payslip send failed")
		default:
			entry.WithField("status", o.Status).Warn("unknown payslip status")
		}
	})
}
