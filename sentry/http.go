package sentry

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
)

// HTTP request building code, used to augment the data sent to Sentry
// if a http.Request object is passed as an argument to glog, typically the
// request that reported a client side stack trace.

func buildHttpRequest(r *http.Request) *sentry.Request {
	return &sentry.Request{
		URL:         r.URL.String(),
		Method:      r.Method,
		Headers:     sentryHeaders(r.Header),
		Cookies:     r.Header.Get("Cookie"),
		QueryString: r.URL.RawQuery,
		Data:        sentryData(r.Body),
	}
}

func sentryHeaders(headers http.Header) map[string]string {
	m := make(map[string]string, len(headers))
	for k, v := range headers {
		// Cookies have their own section.
		if k != "Cookie" {
			m[k] = strings.Join(v, ",")
		}
	}
	return m
}

func sentryData(body io.ReadCloser) string {
	if body == nil || body == http.NoBody {
		return ""
	}
	if s, ok := body.(io.Seeker); ok {
		_, _ = s.Seek(0, io.SeekStart)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}
