// Package errors provides structured error types for better observability
// and programmatic error handling across layoutcheck.
//
// Configuration problems (an unregistered layout kind or field type, a
// malformed recipe) carry their own codes so callers can tell them apart
// from data failures:
//
//	_, err := layouts.Resolve("fixd")
//	if errors.IsCode(err, errors.ErrCodeUnknownValidator) {
//	    // recipe names a validator that does not exist
//	}
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidRecipe,
//	    "failed to compile split pattern",
//	    err,
//	    map[string]any{
//	        "layout": layout.Name,
//	        "regex":  pattern,
//	    },
//	)
package errors
