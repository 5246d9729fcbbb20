package logger

// Standard field key constants for structured logging.
const (
	FieldService    = "service"
	FieldComponent  = "component"
	FieldDependency = "dependency"
	FieldCacheKey   = "cache_key"
	FieldScopeID    = "scope_id"
	FieldSource     = "source"
	FieldKey        = "key"
	FieldType       = "type"
	FieldError      = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("resolved", logger.Fields("dependency", "database", "persist", true))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
