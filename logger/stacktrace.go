package logger

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ExceptionTag is the tag of entries written by LogStackTrace and
// LogFullStackTrace.
const ExceptionTag = "Exception"

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// LogStackTrace emits err as one Severe entry. The outermost stack trace
// found in the chain is appended to the message.
func (c *Channel) LogStackTrace(err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	var st stackTracer
	if errors.As(err, &st) {
		msg += fmt.Sprintf("%+v", st.StackTrace())
	}
	// "{0}" keeps braces in error text literal
	c.Severe(ExceptionTag, "{0}", msg)
}

// LogFullStackTrace emits one Severe entry per link of the error chain,
// outermost first. When the chain carries stack traces only the links
// with a trace and the root cause are emitted.
func (c *Channel) LogFullStackTrace(err error) {
	for _, msg := range describeChain(err) {
		c.Severe(ExceptionTag, "{0}", msg)
	}
}

func describeChain(err error) []string {
	var links []error
	for e := err; e != nil; e = errors.Unwrap(e) {
		links = append(links, e)
	}
	if len(links) == 0 {
		return nil
	}

	var out []string
	rootTraced := false
	for i, e := range links {
		if st, ok := e.(stackTracer); ok {
			out = append(out, e.Error()+fmt.Sprintf("%+v", st.StackTrace()))
			rootTraced = i == len(links)-1
		}
	}

	switch {
	case len(out) == 0:
		for _, e := range links {
			out = append(out, e.Error())
		}
	case !rootTraced:
		out = append(out, links[len(links)-1].Error())
	}
	return out
}
