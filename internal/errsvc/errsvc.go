// Package errsvc is the single process-wide point for converting a raised
// error into a structured record, deciding its observable consequences
// (log, toast, error-screen navigation), and notifying listeners.
//
// The Service is explicitly constructed and injected into consumers. There
// is no package-level singleton.
package errsvc

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Type categorizes an error.
type Type string

const (
	TypeNetwork        Type = "network"
	TypeValidation     Type = "validation"
	TypeDatabase       Type = "database"
	TypeAuthentication Type = "authentication"
	TypePermission     Type = "permission"
	TypeUnknown        Type = "unknown"
)

// Severity grades an error's impact.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ToastDuration returns how long transient feedback for this severity
// should stay visible.
func (s Severity) ToastDuration() time.Duration {
	switch s {
	case SeverityCritical:
		return 8 * time.Second
	case SeverityHigh:
		return 6 * time.Second
	case SeverityLow:
		return 3 * time.Second
	default:
		return 4 * time.Second
	}
}

// AppError is a classified error record. Each instance is terminal: it is
// classified once, its side effects run once, and it lands in the history
// buffer.
type AppError struct {
	ID        string
	Type      Type
	Severity  Severity
	Message   string
	Source    string
	Timestamp time.Time
	Context   map[string]interface{}
	Err       error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the original error, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Options toggles the side effects of handling a single error.
type Options struct {
	ShowToast           bool
	LogError            bool
	NavigateToErrorPage bool
}

// DefaultOptions logs and toasts but does not navigate.
func DefaultOptions() Options {
	return Options{ShowToast: true, LogError: true}
}

// Toaster surfaces transient severity-colored feedback to the user.
// The CLI prints; a richer front end may render however it likes.
type Toaster interface {
	Toast(severity Severity, title, message string, duration time.Duration)
}

// Navigator redirects the user to a dedicated error screen.
type Navigator interface {
	NavigateToError(title, message, errorID string)
}

// historySize bounds the retained error history.
const historySize = 50

// Service classifies errors, runs side effects, and notifies subscribers.
type Service struct {
	logger    *slog.Logger
	toaster   Toaster
	navigator Navigator

	mu        sync.Mutex
	errors    []*AppError
	listeners map[int]func(*AppError)
	nextSub   int
}

// New creates a Service. logger may be nil (slog.Default is used);
// toaster and navigator may be nil, in which case those side effects
// are skipped.
func New(logger *slog.Logger, toaster Toaster, navigator Navigator) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:    logger,
		toaster:   toaster,
		navigator: navigator,
		listeners: make(map[int]func(*AppError)),
	}
}

// NewError builds a classified record without handling it. Callers use this
// to override type/severity before passing to Handle.
func (s *Service) NewError(message string, typ Type, severity Severity, source string, cause error) *AppError {
	return &AppError{
		ID:        newErrorID(),
		Type:      typ,
		Severity:  severity,
		Message:   message,
		Source:    source,
		Timestamp: time.Now(),
		Err:       cause,
	}
}

// Classify derives type and severity from an error's message.
//
// Message containing a network-related substring => network/high.
// Message containing a database-related substring => database/critical.
// Everything else => unknown/medium.
func Classify(err error) (Type, Severity) {
	if err == nil {
		return TypeUnknown, SeverityMedium
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "timeout"):
		return TypeNetwork, SeverityHigh
	case strings.Contains(msg, "database") || strings.Contains(msg, "sqlite") || strings.Contains(msg, "constraint"):
		return TypeDatabase, SeverityCritical
	}
	return TypeUnknown, SeverityMedium
}

// Handle records the error, runs the toggled side effects, and notifies
// listeners. If err is not already an *AppError it is classified first.
func (s *Service) Handle(err error, source string, opts Options) *AppError {
	appErr, ok := err.(*AppError)
	if !ok {
		typ, sev := Classify(err)
		appErr = s.NewError(err.Error(), typ, sev, source, err)
	}

	s.record(appErr)

	if opts.LogError {
		s.log(appErr)
	}
	if opts.ShowToast && s.toaster != nil {
		s.toaster.Toast(appErr.Severity, toastTitle(appErr.Type), appErr.Message, appErr.Severity.ToastDuration())
	}
	if opts.NavigateToErrorPage && s.navigator != nil {
		s.navigator.NavigateToError(errorTitle(appErr.Type), appErr.Message, appErr.ID)
	}

	s.notify(appErr)
	return appErr
}

// HandleQueryError handles a failure surfaced by the query layer: classify,
// record, log, toast, and navigate to the error screen only when critical.
func (s *Service) HandleQueryError(err error, source string) *AppError {
	typ, sev := Classify(err)
	appErr := s.NewError(err.Error(), typ, sev, source, err)

	s.record(appErr)
	s.log(appErr)
	if s.toaster != nil {
		s.toaster.Toast(sev, toastTitle(typ), appErr.Message, sev.ToastDuration())
	}
	if sev == SeverityCritical && s.navigator != nil {
		s.navigator.NavigateToError(errorTitle(typ), appErr.Message, appErr.ID)
	}

	s.notify(appErr)
	return appErr
}

// HandleValidationError reports a validation failure: low severity,
// toast only.
func (s *Service) HandleValidationError(message, source string) *AppError {
	appErr := s.NewError(message, TypeValidation, SeverityLow, source, nil)

	s.record(appErr)
	if s.toaster != nil {
		s.toaster.Toast(SeverityLow, toastTitle(TypeValidation), message, SeverityLow.ToastDuration())
	}

	s.notify(appErr)
	return appErr
}

// HandleNetworkError reports a connectivity failure: high severity.
func (s *Service) HandleNetworkError(err error, source string) *AppError {
	appErr := s.NewError("connection problem, please check your network", TypeNetwork, SeverityHigh, source, err)

	s.record(appErr)
	s.log(appErr)
	if s.toaster != nil {
		s.toaster.Toast(SeverityHigh, toastTitle(TypeNetwork), appErr.Message, SeverityHigh.ToastDuration())
	}

	s.notify(appErr)
	return appErr
}

// Wrap runs fn and, if it fails, classifies and reports the error without
// re-raising it. The failed action leaves its caller in the prior state.
func (s *Service) Wrap(ctx context.Context, source string, fn func(ctx context.Context) error) *AppError {
	if err := fn(ctx); err != nil {
		return s.Handle(err, source, DefaultOptions())
	}
	return nil
}

// Subscribe registers a listener and returns its deregistration func.
// A panicking listener does not prevent the others from being notified.
func (s *Service) Subscribe(fn func(*AppError)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Errors returns a copy of the retained history, oldest first.
func (s *Service) Errors() []*AppError {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*AppError, len(s.errors))
	copy(out, s.errors)
	return out
}

// ErrorByID looks up a retained error for support reference.
func (s *Service) ErrorByID(id string) *AppError {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.errors {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Clear drops the retained history.
func (s *Service) Clear() {
	s.mu.Lock()
	s.errors = nil
	s.mu.Unlock()
}

// Remove drops a single retained error.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.errors {
		if e.ID == id {
			s.errors = append(s.errors[:i], s.errors[i+1:]...)
			return
		}
	}
}

func (s *Service) record(e *AppError) {
	s.mu.Lock()
	s.errors = append(s.errors, e)
	if len(s.errors) > historySize {
		s.errors = s.errors[len(s.errors)-historySize:]
	}
	s.mu.Unlock()
}

func (s *Service) log(e *AppError) {
	attrs := []interface{}{
		"id", e.ID,
		"type", string(e.Type),
		"source", e.Source,
		"time", e.Timestamp,
	}
	if e.Context != nil {
		attrs = append(attrs, "context", e.Context)
	}

	switch e.Severity {
	case SeverityCritical, SeverityHigh:
		s.logger.Error(e.Message, attrs...)
	case SeverityMedium:
		s.logger.Warn(e.Message, attrs...)
	default:
		s.logger.Info(e.Message, attrs...)
	}
}

func (s *Service) notify(e *AppError) {
	s.mu.Lock()
	fns := make([]func(*AppError), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("error listener panicked", "panic", r)
				}
			}()
			fn(e)
		}()
	}
}

func toastTitle(t Type) string {
	switch t {
	case TypeNetwork:
		return "Connection Error"
	case TypeDatabase:
		return "Data Error"
	case TypeValidation:
		return "Invalid Input"
	case TypeAuthentication:
		return "Authentication Error"
	case TypePermission:
		return "Permission Denied"
	}
	return "Error"
}

func errorTitle(t Type) string {
	switch t {
	case TypeNetwork:
		return "Network Problem"
	case TypeDatabase:
		return "Database Error"
	case TypeValidation:
		return "Invalid Data"
	case TypeAuthentication:
		return "Sign-in Problem"
	case TypePermission:
		return "Permission Problem"
	}
	return "Unexpected Error"
}

func newErrorID() string {
	return fmt.Sprintf("error_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}
