package gelf

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yext/glog"
	"golang.org/x/xerrors"

	"github.com/yext/cleanstack/stacktrace"
)

func TestBuildData(t *testing.T) {
	callers := make([]uintptr, 1)
	runtime.Callers(1, callers)

	data := buildData(glog.Event{
		Severity:   "ERROR",
		Message:    []byte("uncaught exception"),
		StackTrace: callers,
		Data: []interface{}{
			map[string]interface{}{"user": 42},
			stacktrace.Trace("TypeError: boom\n    at renderCart (/app/cart.js:120:17)\n    at main (/app/index.js:3:1)"),
			"ignored",
		},
	})

	assert.Equal(t, 42, data["user"])
	assert.Equal(t, "ERROR", data["levelName"])
	assert.Equal(t, "/app/cart.js in renderCart at line 120:17, /app/index.js in main at line 3:1", data["attachedStackTrace"])

	callSite, _ := data["exceptionStackTrace"].(string)
	assert.Contains(t, callSite, "gelf_test.go in ")
	assert.Contains(t, callSite, "TestBuildData at line ")
}

func TestBuildDataErrorArg(t *testing.T) {
	data := buildData(glog.Event{
		Severity: "WARNING",
		Data:     []interface{}{glog.ErrorArg{Error: xerrors.New("boom")}},
	})

	attached, _ := data["attachedStackTrace"].(string)
	assert.True(t, strings.HasPrefix(attached, "/"), attached)
	assert.Contains(t, attached, "TestBuildDataErrorArg")
	assert.Equal(t, "", data["exceptionStackTrace"])
}

func TestBuildDataWithoutStacks(t *testing.T) {
	data := buildData(glog.Event{Severity: "INFO"})
	assert.NotContains(t, data, "attachedStackTrace")
	assert.Equal(t, "", data["exceptionStackTrace"])
}
