package core

import "strings"

// ValidateParams extracts every required parameter from source. It fails
// closed: a missing or blank parameter yields a BadRequest error and no
// partial result.
func ValidateParams(source ParamSource, required ...string) (ValidatedParams, error) {
	if source == nil {
		return nil, NewOutcomeError(OutcomeBadRequest)
	}
	params := make(ValidatedParams, len(required))
	for _, name := range required {
		value, ok := source.Param(name)
		if !ok || strings.TrimSpace(value) == "" {
			return nil, NewOutcomeError(OutcomeBadRequest)
		}
		params[name] = value
	}
	return params, nil
}
