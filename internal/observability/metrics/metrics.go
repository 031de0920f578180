// Package metrics names and tags the application's metrics in one place.
package metrics

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/observability/statsd"
)

// Metric names.
const (
	NavigationResolved = "navigation.resolved"
	HTTPRequest        = "http.request"
	HTTPDuration       = "http.duration"
	QueryCompleted     = "query.completed"
	QueryDuration      = "query.duration"
	LoginAttempt       = "auth.login"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDenied  = "denied"
)

// EmitNavigation counts one navigation resolution.
func EmitNavigation(sink statsd.Sink, route, outcome string) {
	if sink == nil {
		return
	}
	sink.Count(NavigationResolved, 1, map[string]string{"route": route, "outcome": outcome})
}

// EmitHTTPRequest records a served request. pattern is the mux pattern, never the raw path,
// so tag cardinality stays bounded.
func EmitHTTPRequest(sink statsd.Sink, method, pattern string, status int, d time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"method":       method,
		"route":        pattern,
		"status_class": strconv.Itoa(status/100) + "xx",
	}
	sink.Count(HTTPRequest, 1, tags)
	sink.Timing(HTTPDuration, d, CloneTags(tags))
}

// EmitLogin counts a login attempt by method (password, oauth) and result.
func EmitLogin(sink statsd.Sink, method, result string) {
	if sink == nil {
		return
	}
	sink.Count(LoginAttempt, 1, map[string]string{"method": method, "result": result})
}

// QueryMetric captures one agent round-trip.
type QueryMetric struct {
	AnswerType string
	Duration   time.Duration
	Err        error
}

// EmitQuery records an agent query outcome and latency.
func EmitQuery(sink statsd.Sink, in QueryMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": ResultSuccess}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = Classify(in.Err)
	} else if in.AnswerType != "" {
		tags["type"] = in.AnswerType
	}
	sink.Count(QueryCompleted, 1, tags)
	if in.Duration > 0 {
		sink.Timing(QueryDuration, in.Duration, CloneTags(tags))
	}
}

// Classify returns a low-cardinality error label: the AppError code when there is one,
// otherwise the innermost error's type name in snake case.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
