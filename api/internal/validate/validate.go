// Package validate holds the reusable request checks shared by every
// generation route. All validators are pure: no I/O, deterministic, and the
// only effect is the returned *Error.
package validate

import (
	"fmt"
	"strings"
)

// Error is a failed validation. Routes translate it to an HTTP 400 body.
type Error struct {
	Category string
	Message  string
	Field    string
	Details  []map[string]any
}

func (e *Error) Error() string { return e.Message }

// File is the slice of an upload the validators care about.
type File struct {
	Filename    string
	ContentType string
}

// FileTypes fails if any file's declared content type is not in the
// allow-list. The offending index is reported in the field name when more
// than one file was sent.
func FileTypes(files []File, allowed []string, fieldName string) *Error {
	for i, f := range files {
		ok := false
		for _, t := range allowed {
			if f.ContentType == t {
				ok = true
				break
			}
		}
		if !ok {
			field := fieldName
			if len(files) > 1 {
				field = fmt.Sprintf("%s[%d]", fieldName, i)
			}
			return &Error{
				Category: "Invalid File Type",
				Message:  fmt.Sprintf("Invalid file type. Supported formats: %s", strings.Join(allowed, ", ")),
				Field:    field,
				Details: []map[string]any{{
					"received_type": f.ContentType,
				}},
			}
		}
	}
	return nil
}

// FileCount fails when more than max files are provided. Exactly max passes.
func FileCount(files []File, max int, fieldName string) *Error {
	if len(files) > max {
		return &Error{
			Category: "Too Many Files",
			Message:  fmt.Sprintf("Maximum %d files allowed", max),
			Field:    fieldName,
			Details: []map[string]any{{
				"provided_count": len(files),
				"max_allowed":    max,
			}},
		}
	}
	return nil
}

// ParameterChoice fails when value is not one of the enumerated options.
func ParameterChoice(value string, options []string, paramName string) *Error {
	for _, o := range options {
		if value == o {
			return nil
		}
	}
	return &Error{
		Category: "Invalid Parameter Value",
		Message:  fmt.Sprintf("Invalid value for '%s'. Valid options: %s", paramName, strings.Join(options, ", ")),
		Field:    paramName,
		Details: []map[string]any{{
			"provided_value": value,
			"valid_options":  options,
		}},
	}
}

// RequiredFields reports every missing and every blank field in a single
// error. A key that is absent is missing; a present value that is empty or
// whitespace-only is empty — never both.
func RequiredFields(data map[string]string, required []string) *Error {
	var missing, empty []string
	for _, f := range required {
		v, ok := data[f]
		switch {
		case !ok:
			missing = append(missing, f)
		case strings.TrimSpace(v) == "":
			empty = append(empty, f)
		}
	}
	if len(missing) == 0 && len(empty) == 0 {
		return nil
	}

	var details []map[string]any
	if len(missing) > 0 {
		details = append(details, map[string]any{
			"type":    "missing_fields",
			"fields":  missing,
			"message": fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		})
	}
	if len(empty) > 0 {
		details = append(details, map[string]any{
			"type":    "empty_fields",
			"fields":  empty,
			"message": fmt.Sprintf("Empty required fields: %s", strings.Join(empty, ", ")),
		})
	}
	e := &Error{
		Category: "Required Fields Validation Error",
		Message:  "Some required fields are missing or empty",
		Details:  details,
	}
	// Single offending field: name it so clients can highlight the input.
	if len(missing)+len(empty) == 1 {
		if len(missing) == 1 {
			e.Field = missing[0]
		} else {
			e.Field = empty[0]
		}
	}
	return e
}
