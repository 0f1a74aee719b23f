// Package parameters handles generic configuration Params, a map[string]string that the
// user can set with a string like "width=30,height=16,hazards=99".
package parameters

import (
	"github.com/janpfeifer/sweepGo/internal/generics"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

// Params represent generic configuration parameters.
type Params map[string]string

// NewFromConfigString create params from user's configuration string.
// Empty parts (e.g.: a trailing comma) are ignored, and spaces around keys and values are trimmed.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2) // Split into up to 2 parts to handle '=' in values
		key := strings.ToLower(strings.TrimSpace(subParts[0]))
		if len(subParts) == 1 {
			params[key] = ""
		} else {
			params[key] = strings.TrimSpace(subParts[1])
		}
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T interface{ bool | int | string }](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T interface{ bool | int | string }](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var t T
	toT := func(v any) T { return v.(T) }
	switch any(defaultValue).(type) {
	case string:
		return toT(value), nil
	case int:
		if value == "" {
			return t, errors.Errorf("configuration %q requires an integer value", key)
		}
		parsedValue, err := strconv.Atoi(value)
		if err != nil {
			return t, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		return toT(parsedValue), nil
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1": // Empty value is considered "true"
			return toT(true), nil
		case "false", "0":
			return toT(false), nil
		}
		return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
	}
	return defaultValue, nil
}

// CheckAllUsed returns an error listing the remaining keys, if any. Use it after popping all the
// known parameters with PopParamOr.
func CheckAllUsed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	var unknown []string
	for key := range generics.SortedKeys(params) {
		unknown = append(unknown, key)
	}
	return errors.Errorf("unknown parameters \"%s\"", strings.Join(unknown, "\", \""))
}
