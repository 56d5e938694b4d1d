package utils

import (
	"fmt"
	"strings"
)

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseSelectors parses KEY=VALUE pairs into a key to allowed-values map.
// Each pair is split on its first "=" and both sides are kept verbatim, so
// values may contain commas, "=" or surrounding spaces. Repeating a key adds
// another allowed value.
func ParseSelectors(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string][]string)
	for _, pair := range pairs {
		key, value, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		result[key] = append(result[key], value)
	}
	return result, nil
}

func splitPair(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid key=value pair (missing =): %s", pair)
	}
	if key == "" {
		return "", "", fmt.Errorf("invalid key=value pair (empty key): %s", pair)
	}
	return key, value, nil
}
