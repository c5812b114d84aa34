package manager

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/merge"
)

// buildEnv converts an environ block into launch variables. Sequence values
// are joined with the OS path list separator. $VAR references are expanded
// against variables defined earlier in the block, then against getenv.
func buildEnv(environ *merge.Map, getenv func(string) string) ([]launch.Var, error) {
	vars := make([]launch.Var, 0, environ.Len())
	defined := make(map[string]string, environ.Len())
	expand := func(name string) string {
		if v, ok := defined[name]; ok {
			return v
		}
		return getenv(name)
	}

	for _, name := range environ.Keys() {
		raw, _ := environ.Get(name)
		value, err := envValue(raw)
		if err != nil {
			return nil, fmt.Errorf("environ.%s: %w", name, err)
		}
		value = os.Expand(value, expand)
		defined[name] = value
		vars = append(vars, launch.Var{Name: name, Value: value})
	}
	return vars, nil
}

func envValue(v any) (string, error) {
	seq, ok := v.([]any)
	if !ok {
		return scalarString(v)
	}
	parts := make([]string, 0, len(seq))
	for i, e := range seq {
		s, err := scalarString(e)
		if err != nil {
			return "", fmt.Errorf("[%d]: %w", i, err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, string(os.PathListSeparator)), nil
}

// scalarString formats a YAML scalar the way it was most likely written.
func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %T", v)
	}
}
