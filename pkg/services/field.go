package services

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// Field extracts a single string from a decoded JSON document with a jq query.
type Field struct {
	query string
	code  *gojq.Code
}

// CompileField parses and compiles a jq query such as ".results[0].title".
func CompileField(query string) (*Field, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("parse field %q: %w", query, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compile field %q: %w", query, err)
	}
	return &Field{query: query, code: code}, nil
}

// MustCompileField is like CompileField but panics on error.
func MustCompileField(query string) *Field {
	f, err := CompileField(query)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the query.
func (f *Field) String() string {
	return f.query
}

// Extract runs the query against v and returns the first result.
// A null or non-string result yields ErrNotFound; a query error yields ErrMalformed.
func (f *Field) Extract(ctx context.Context, v any) (string, error) {
	iter := f.code.RunWithContext(ctx, v)
	out, ok := iter.Next()
	if !ok {
		return "", ErrNotFound
	}
	if err, ok := out.(error); ok {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, f.query, err)
	}
	s, ok := out.(string)
	if !ok || s == "" {
		return "", ErrNotFound
	}
	return s, nil
}
