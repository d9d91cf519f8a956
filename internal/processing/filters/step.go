package filters

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"image-filter-studio/internal/models"
)

// Step is one named filter invocation.
type Step struct {
	Name   string
	Params Params
}

func (s Step) String() string {
	if len(s.Params) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, s.Params[k])
	}
	return s.Name + ":" + strings.Join(parts, ",")
}

// ParseStep reads "name" or "name:key=value,key=value". Numeric values
// become float64; anything else is kept as a string.
func ParseStep(s string) (Step, error) {
	s = strings.TrimSpace(s)
	name, rest, hasParams := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Step{}, fmt.Errorf("%w: empty step %q", models.ErrInvalidInput, s)
	}

	step := Step{Name: name, Params: Params{}}
	if !hasParams {
		return step, nil
	}

	for _, kv := range strings.Split(rest, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" {
			return Step{}, fmt.Errorf("%w: parameter %q in step %q is not key=value", models.ErrInvalidInput, kv, s)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			step.Params[key] = f
		} else {
			step.Params[key] = value
		}
	}
	return step, nil
}
