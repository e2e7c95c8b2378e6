// Copyright (C) 2025 The go-poolvote Authors
// This file is part of go-poolvote
//
// go-poolvote is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-poolvote is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-poolvote.  If not, see <https://www.gnu.org/licenses/>.

// Package serr provides the structured, kind-tagged errors used across go-poolvote.
// Every domain failure carries a stable Kind discriminant, a Category describing who is
// expected to act on it, a human readable message and an arbitrary set of attributes.
package serr

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

// Kind is the stable discriminant of a named failure condition.
type Kind string

// Category groups kinds by who is expected to handle them.
type Category int

const (
	// Unclassified is reported for errors that are not structured errors.
	Unclassified Category = iota
	// Configuration errors come from caller misconfiguration and are not retryable.
	Configuration
	// Environment errors need user action (install, unlock or authorize a wallet).
	Environment
	// StatePrecondition errors mean an operation ran before the state it needs was populated.
	StatePrecondition
	// ValidationOutcome errors are expected, recoverable outcomes of the voting protocol.
	ValidationOutcome
)

func (c Category) String() string {
	switch c {
	case Configuration:
		return "configuration"
	case Environment:
		return "environment"
	case StatePrecondition:
		return "state-precondition"
	case ValidationOutcome:
		return "validation-outcome"
	default:
		return "unclassified"
	}
}

// Error is a structured error object.
type Error struct {
	Kind     Kind
	Category Category
	Msg      string
	Attrs    map[string]any
	Wrapped  error
}

// New creates a new structured error object using the supplied kind, category, message
// and attribute pairs.
func New(kind Kind, category Category, msg string, pairs ...any) *Error {
	attrs := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs[pairs[i].(string)] = pairs[i+1]
	}
	return &Error{Kind: kind, Category: category, Msg: msg, Attrs: attrs}
}

// Error returns the error message. It is the supplied message, or the serialized
// attributes if the supplied message was blank. A "%A" in the message is replaced by the
// attributes.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.AttributesAsString()
	}
	if strings.Contains(e.Msg, "%A") {
		return strings.ReplaceAll(e.Msg, "%A", e.AttributesAsString())
	}
	return e.Msg
}

// AttributesAsString returns the attributes the same way that slog serializes
// attributes to text in a log message, in no guaranteed order.
func (e *Error) AttributesAsString() string {
	if len(e.Attrs) == 0 {
		return ""
	}
	var buf strings.Builder
	args := make([]any, 0, 2*len(e.Attrs))
	for key, val := range e.Attrs {
		args = append(args, key, val)
	}
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey, slog.LevelKey, slog.MessageKey:
				return slog.Attr{}
			}
			return a
		},
	}))
	l.Info("", args...)
	return strings.TrimSpace(buf.String())
}

// Unwrap returns the inner error, if it exists.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports a match against any structured error of the same kind, so package level
// sentinels can be compared with errors.Is even when the returned value carries extra
// attributes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// With returns a copy of e with additional attributes. Sentinels stay untouched.
func (e *Error) With(pairs ...any) *Error {
	out := *e
	out.Attrs = make(map[string]any, len(e.Attrs)+len(pairs)/2)
	for k, v := range e.Attrs {
		out.Attrs[k] = v
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out.Attrs[pairs[i].(string)] = pairs[i+1]
	}
	return &out
}

// Wrap returns a copy of e wrapping the supplied cause.
func (e *Error) Wrap(cause error) *Error {
	out := e.With()
	out.Wrapped = cause
	return out
}

// Errorf returns a copy of e with a formatted message.
func (e *Error) Errorf(format string, args ...any) *Error {
	out := e.With()
	out.Msg = fmt.Sprintf(format, args...)
	return out
}

// KindOf returns the kind of the first structured error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// CategoryOf returns the category of the first structured error in err's chain.
func CategoryOf(err error) Category {
	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}
	return Unclassified
}

// Attributes returns the attributes of a structured error, or nil.
func Attributes(err error) map[string]any {
	var se *Error
	if errors.As(err, &se) {
		return se.Attrs
	}
	return nil
}

// Annotate adds attributes to an existing error. A structured error in the chain is copied
// with the extra attributes; anything else is wrapped in an unclassified structured error
// carrying its message. Just like append() for slices, callers should re-assign.
func Annotate(err error, pairs ...any) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		out := se.With(pairs...)
		if se != err {
			out.Wrapped = err
		}
		return out
	}
	out := New("", Unclassified, err.Error(), pairs...)
	out.Wrapped = err
	return out
}
