// Package validate runs consistency checks over built scope trees.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/zap"

	"github.com/xraph/scout"
)

// CodeValidationFailed is the code of the error returned by Result.Err.
const CodeValidationFailed = "SCOUT_VALIDATION_FAILED"

// Severity grades an issue.
type Severity int

const (
	Warning Severity = iota
	Failure
)

// String returns the severity name.
func (s Severity) String() string {
	if s == Failure {
		return "failure"
	}
	return "warning"
}

// Issue is one finding of a checker.
type Issue struct {
	Checker  string
	Severity Severity
	Scope    *scout.Scope
	Key      scout.Key
	Message  string
}

// Error implements error.
func (i Issue) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s in %s", i.Checker, i.Message, i.Scope)
	if !i.Key.IsZero() {
		fmt.Fprintf(&b, " (%s)", i.Key)
	}
	return b.String()
}

// Checker inspects one scope. The graph holds every scope under validation
// and their ancestors.
type Checker interface {
	Name() string
	Check(s *scout.Scope, g *scout.ScopeGraph) []Issue
}

// Result aggregates the issues of a run, ancestors first.
type Result struct {
	Issues []Issue
}

// OK reports whether no issue is a failure.
func (r Result) OK() bool {
	return len(r.Failures()) == 0
}

// Failures returns the issues with Failure severity.
func (r Result) Failures() []Issue {
	return r.filter(Failure)
}

// Warnings returns the issues with Warning severity.
func (r Result) Warnings() []Issue {
	return r.filter(Warning)
}

func (r Result) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Err returns nil when the result is OK, otherwise a coded error joining
// every failure.
func (r Result) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	joined := make([]error, len(failures))
	for i, failure := range failures {
		joined[i] = failure
	}

	return errs.NewError(
		CodeValidationFailed,
		fmt.Sprintf("validation found %d failure(s)", len(failures)),
		errors.Join(joined...),
	)
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger logs every issue: failures at Warn, warnings at Debug.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Run checks every scope reachable from scopes, ancestors first.
func Run(scopes []*scout.Scope, checkers []Checker, opts ...Option) Result {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	graph := scout.NewScopeGraph(scopes...)

	var result Result
	for _, s := range graph.TopologicalSort() {
		for _, checker := range checkers {
			for _, issue := range checker.Check(s, graph) {
				if issue.Checker == "" {
					issue.Checker = checker.Name()
				}
				if issue.Scope == nil {
					issue.Scope = s
				}
				logIssue(o.logger, issue)
				result.Issues = append(result.Issues, issue)
			}
		}
	}

	return result
}

func logIssue(logger *zap.Logger, issue Issue) {
	fields := []zap.Field{
		zap.String("checker", issue.Checker),
		zap.String("scope", issue.Scope.Name()),
	}
	if !issue.Key.IsZero() {
		fields = append(fields, zap.Stringer("key", issue.Key))
	}

	if issue.Severity == Failure {
		logger.Warn(issue.Message, fields...)
		return
	}
	logger.Debug(issue.Message, fields...)
}
