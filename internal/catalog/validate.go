package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atelierhq/studio-backend/pkg/errors"
)

// Validate checks an entry against the rules of its work type. The switch is
// exhaustive over WorkType; adding a variant without a case here is a bug.
func Validate(entry Entry) error {
	var problems []string

	if strings.TrimSpace(entry.Title) == "" {
		problems = append(problems, "title is required")
	}
	if entry.Page < 0 {
		problems = append(problems, "page must be positive")
	}
	if entry.Position < 0 {
		problems = append(problems, "position must be positive")
	}

	switch entry.WorkType {
	case WorkTypeArchitecture:
		problems = append(problems, requireFields(map[string]string{
			"country": entry.Country,
			"city":    entry.City,
		})...)
	case WorkTypeProductDesign:
		problems = append(problems, requireFields(map[string]string{
			"country": entry.Country,
			"city":    entry.City,
		})...)
	case WorkTypeArt:
		problems = append(problems, requireFields(map[string]string{
			"discipline": entry.Discipline,
		})...)
	case WorkTypeFilm:
		// Films carry only the shared fields; title suffices.
	default:
		problems = append(problems, fmt.Sprintf("unknown work type %q", entry.WorkType))
	}

	if len(problems) > 0 {
		return errors.New(errors.CodeValidation, "invalid entry").
			WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

func requireFields(fields map[string]string) []string {
	var problems []string
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			problems = append(problems, name+" is required")
		}
	}
	return problems
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for name := range fields {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
