// internal/models/form.go
package models

import (
	"fmt"
	"strconv"
)

// FormFields flattens job or request variables into the string map the
// loan form coercion works on. Numbers keep their shortest representation,
// booleans become "true"/"false", nil and nested values are skipped.
func FormFields(vars map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(vars))
	for k, v := range vars {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			fields[k] = strconv.Itoa(val)
		case int64:
			fields[k] = strconv.FormatInt(val, 10)
		case bool:
			fields[k] = strconv.FormatBool(val)
		case fmt.Stringer:
			fields[k] = val.String()
		}
	}
	return fields
}
