// pkg/registry/validate.go
package registry

import (
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks that every activity is well formed: unique non-empty IDs,
// a display name, a parseable timeout and schemas that compile.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]string)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", activity.ID)
		}
		// HTTP-only activities have no job type.
		if activity.TaskType != "" {
			if other, ok := taskTypes[activity.TaskType]; ok {
				return fmt.Errorf("activities %s and %s share task type %s", other, activity.ID, activity.TaskType)
			}
			taskTypes[activity.TaskType] = activity.ID
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
			}
		}
		if activity.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", activity.ID)
		}

		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  activity.InputSchema,
			"outputSchema": activity.OutputSchema,
		} {
			if schema == nil {
				return fmt.Errorf("activity %s missing required field: %s", activity.ID, name)
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %s has invalid %s: %w", activity.ID, name, err)
			}
		}
	}
	return nil
}
