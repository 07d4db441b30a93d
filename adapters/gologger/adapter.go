package gologger

import (
	"strings"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

const DefaultLoggerName = "integrations"

// Loggers bundles a resolved glog logger with its go-job counterparts so the
// queue mirror logs through the same sink as the gateway.
type Loggers struct {
	Provider    glog.LoggerProvider
	Logger      glog.Logger
	JobProvider job.LoggerProvider
	JobLogger   job.Logger
}

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) Loggers {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLoggerName
	}
	resolvedProvider, resolvedLogger := glog.Resolve(name, provider, logger)
	out := Loggers{
		Provider: resolvedProvider,
		Logger:   glog.Ensure(resolvedLogger),
	}
	if out.Provider != nil {
		out.JobProvider = job.GoLoggerProvider(out.Provider)
	}
	out.JobLogger = job.GoLogger(out.Logger)
	return out
}
