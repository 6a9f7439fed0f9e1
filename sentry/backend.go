// The Sentry package contains an implementation of a bridge between
// the sentry-go package and glog which allows for glog errors of
// level ERROR to be tracked as errors in Sentry. Every stack sent
// to Sentry goes through the textual frame decoder of the stacktrace
// package: the glog call site, the frames recorded by xerrors (or the
// Yext fork named yerrors) errors passed to glog, and any textual
// stack trace attached with stacktrace.Trace, such as one reported
// by a browser or a Node.js process.
package sentry

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/yext/glog"

	"github.com/yext/cleanstack/stacktrace"
)

var (
	sentryDebug = flag.Bool("sentryDebug", false,
		"enable debug mode in Sentry clients")
	sentryFingerprinting = flag.Bool("sentryFingerprinting", false,
		"enable server-side issue fingerprinting. If set, duplicate issues will only be tracked if they have equivalent filenames and line numbers")

	hostname string
)

func init() {
	hostname, _ = os.Hostname()
	if short := strings.Index(hostname, "."); short != -1 {
		hostname = hostname[:short]
	}
}

// CaptureErrors is the entrypoint for tracking Sentry exceptions via glog.
// Given Sentry DSNs and client options (DSN should not be specified in opts),
// constructs individual Sentry Client's for each DSN. The glog.Event channel
// should be provided by running glog.RegisterBackend(). For example:
//
//	sentry.CaptureErrors(
//		"projectName",
//		[]string{"https://primaryDsn", "https://optionalSecondaryDsn", ...},
//		sentrygo.ClientOptions{
//			Release: "release",
//			Environment: "prod",
//		},
//		glog.RegisterBackend())
//
// When an event is received via glog at the ERROR severity,
// the first provided DSN will be used, unless a sentry.AltDsn is
// tagged on the glog event, in which case the specified client
// for that DSN will be used:
//
//	glog.Error("error for secondary DSN", sentry.AltDsn("https://optionalSecondaryDsn"))
func CaptureErrors(project string, dsns []string, opts sentry.ClientOptions, comm <-chan glog.Event) {
	// If no DSNs specified, panic (we can't invoke glog)
	if len(dsns) == 0 {
		panic("must specify at least one Sentry DSN")
	}

	hubs := make(map[string]*sentry.Hub)
	var primaryHub *sentry.Hub
	for _, dsn := range dsns {
		client, err := sentry.NewClient(buildClientOptions(dsn, opts))

		// If unable to initialize the Sentry client, panic (we can't invoke glog)
		if err != nil {
			panic(err)
		}

		scope := sentry.NewScope()
		scope.SetTag("project", project)
		hub := sentry.NewHub(client, scope)

		if primaryHub == nil {
			primaryHub = hub
		}

		defer client.Flush(1 * time.Second)

		hubs[dsn] = hub
	}

	// This for loop runs indefinitely unless the glog channel closes
	// (which should only happen on app exit)
	for glogEvent := range comm {
		if glogEvent.Severity != "ERROR" {
			continue
		}
		e, target := FromGlogEvent(glogEvent)
		hub, ok := hubs[target.Dsn]
		if !ok {
			hub = primaryHub
		}
		if target.Scope != nil {
			hub.Client().CaptureEvent(e, nil, target.Scope)
		} else {
			hub.CaptureEvent(e)
		}
	}
}

// Adds the dsn, server hostname, and debug status to the provided client options
func buildClientOptions(dsn string, opts sentry.ClientOptions) sentry.ClientOptions {
	opts.Dsn = dsn
	if !opts.Debug {
		opts.Debug = *sentryDebug
	}
	opts.ServerName = hostname
	return opts
}

// Builds a fingerprint of the filename, function, and position for all
// of the in-app frames in the top (most important) exception stacktrace.
func buildFingerprint(exceptions []sentry.Exception) []string {
	var r []string
	if len(exceptions) == 0 || exceptions[0].Stacktrace == nil {
		return r
	}
	for _, f := range exceptions[0].Stacktrace.Frames {
		if f.InApp {
			r = append(r, fmt.Sprintf("%s in %s at line %d:%d", f.Filename, f.Function, f.Lineno, f.Colno))
		}
	}
	return r
}

// FromGlogEvent processes a glog event and generates a corresponding Sentry event.
// This includes building the stacktraces, cleaning up the error title and subtitle,
// and identifying whether any AltDsn, Scope or Fingerprint overrides were set.
//
// The event gets one exception per stack source: the glog call site first,
// then any stacktrace.Trace attributes, then the error argument.
func FromGlogEvent(e glog.Event) (*sentry.Event, Target) {
	var target Target

	s := sentry.NewEvent()
	s.Message = removeGlogPrefixFromMessage(e.Message)
	s.Level = buildLevel(e.Severity)
	s.ServerName = hostname
	s.Logger = stacktrace.RelativeFile(os.Args[0])
	s.Extra = map[string]interface{}{}

	data := map[string]interface{}{}
	sanitizedFormatString := ""
	for _, d := range e.Data {
		switch t := d.(type) {
		case altDsn:
			target.Dsn = string(t)
		case sentryScope:
			target.Scope = t.scope
		case fingerprint:
			s.Fingerprint = []string(t)
		case *http.Request:
			s.Request = buildHttpRequest(t)
		case map[string]interface{}:
			for k, v := range t {
				data[k] = v
			}
		case glog.FormatStringArg:
			// If we have a format string arg, then we can use it
			// to make a rough approximation of the error's "type"
			// by removing the format characters (like %s).
			sanitizedFormatString = cleanupFormatString(t.Format)
		case glog.ErrorArg:
			// Prepend the Message with the innermost error message.
			// This causes it to be used for the headline.
			s.Message = prependMessage(headline(t.Error), s.Message)

			trace := NewStacktrace(stacktrace.ErrorFrames(t.Error))
			msgType, msgValue := splitMessage(prependMessage(headline(t.Error), t.Error.Error()))
			s.Exception = append(s.Exception, sentry.Exception{
				Type:       msgType,
				Value:      addExceptionSource(msgValue, trace),
				Stacktrace: trace,
			})
		default:
			// ignored
		}
	}

	for _, d := range e.Data {
		text, ok := d.(stacktrace.Trace)
		if !ok {
			continue
		}
		trace := NewStacktrace(string(text))
		msg := traceMessage(string(text))
		if msg == "" {
			msg = s.Message
		}
		msgType, msgValue := splitMessage(msg)
		s.Exception = append(s.Exception, sentry.Exception{
			Type:       msgType,
			Value:      addExceptionSource(msgValue, trace),
			Stacktrace: trace,
		})
	}

	// Append the stacktrace provided by glog as the top Exception object,
	// since it provides information about when glog was invoked in the code
	if trace := NewStacktrace(stacktrace.Callers(e.StackTrace)); trace != nil {
		var msgType, msgValue string

		// If a format string was passed to glog, use a sanitized version of it
		// as the exception type, since we know with relative certainty that it
		// will not contain any unique identifiers.
		if sanitizedFormatString != "" {
			msgType = sanitizedFormatString
			_, msgValue = splitMessage(s.Message)
		} else {
			msgType, msgValue = splitMessage(s.Message)
		}

		s.Exception = append(s.Exception, sentry.Exception{
			Type:       msgType,
			Value:      addExceptionSource(msgValue, trace),
			Stacktrace: trace,
		})
	}

	// Reverse the order of the Exception array
	reverse(s.Exception)

	// Set the fingerprint based on the stack trace, if option is specified.
	// This overrides logic in Sentry which will take the specific error
	// message in to account. It instead will be identified by the filename,
	// method name, and position.
	if len(s.Fingerprint) == 0 && *sentryFingerprinting {
		s.Fingerprint = buildFingerprint(s.Exception)
	}

	if len(data) > 0 {
		s.Extra["Data"] = data
	}

	return s, target
}

func reverse(e []sentry.Exception) {
	for i := len(e)/2 - 1; i >= 0; i-- {
		o := len(e) - 1 - i
		e[i], e[o] = e[o], e[i]
	}
}
