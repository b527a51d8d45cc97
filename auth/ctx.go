package auth

import "context"

var userCtxKey = &contextKey{"user"}
var subjectCtxKey = &contextKey{"subject"}

type contextKey struct {
	name string
}

// WithContext sets the resolved User in the given context
func WithContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithSubject stores the decoded token subject for log correlation. The
// value lives in the request's context only, so concurrent requests can
// never observe each other's subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectCtxKey, subject)
}

// ClearSubject resets the subject slot. It must run unconditionally at the
// start of request handling before any best-effort identity extraction.
func ClearSubject(ctx context.Context) context.Context {
	return context.WithValue(ctx, subjectCtxKey, "")
}

// SubjectFromContext returns the request's decoded subject, or false when no
// valid credential was seen.
func SubjectFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(subjectCtxKey).(string)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
