// Package gelf forwards glog events to a Graylog server, attaching the
// decoded stack frames of the event to every message.
package gelf

import (
	"strings"

	"github.com/aphistic/golf"
	"github.com/yext/glog"
	"golang.org/x/time/rate"

	"github.com/yext/cleanstack/stacktrace"
)

// Capture events and sends them to the gelf server.
// Events sent at a higher rate than maxEventsPerSec will be ignored.
// The uri must have a udp or tcp scheme.
func Capture(attrs map[string]interface{}, serverUri string, maxEventsPerSec int, eventCh <-chan glog.Event) error {
	c, err := golf.NewClient()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Dial(serverUri); err != nil {
		return err
	}
	logger, err := c.NewLogger()
	if err != nil {
		return err
	}

	for k, v := range attrs {
		logger.SetAttr(k, v)
	}

	rl := rate.NewLimiter(rate.Limit(maxEventsPerSec), maxEventsPerSec)
	for e := range eventCh {
		if !rl.Allow() {
			continue
		}

		if err := logEvent(logger, e); err != nil {
			glog.Warningf("gelf: dropped %s event: %v", e.Severity, err)
		}
	}
	return nil
}

func logEvent(logger *golf.Logger, e glog.Event) error {
	data := buildData(e)
	message := string(e.Message)

	switch e.Severity {
	case "INFO":
		return logger.Infom(data, "%s", message)
	case "WARNING":
		return logger.Warnm(data, "%s", message)
	case "ERROR":
		return logger.Errm(data, "%s", message)
	case "FATAL":
		return logger.Critm(data, "%s", message)
	}
	return nil
}

// buildData collects the GELF additional fields for e. The call site of the
// glog invocation goes to "exceptionStackTrace"; textual traces attached with
// stacktrace.Trace and frames recorded by error arguments go to
// "attachedStackTrace".
func buildData(e glog.Event) map[string]interface{} {
	data := map[string]interface{}{}
	var attached []string
	for _, d := range e.Data {
		switch t := d.(type) {
		case map[string]interface{}:
			for k, v := range t {
				data[k] = v
			}
		case stacktrace.Trace:
			attached = append(attached, describe(string(t))...)
		case glog.ErrorArg:
			attached = append(attached, describe(stacktrace.ErrorFrames(t.Error))...)
		}
	}

	data["exceptionStackTrace"] = strings.Join(describe(stacktrace.Callers(e.StackTrace)), ", ")
	if len(attached) > 0 {
		data["attachedStackTrace"] = strings.Join(attached, ", ")
	}
	data["levelName"] = e.Severity
	return data
}

func describe(stack string) []string {
	return stacktrace.Parse(stack).Strings()
}
