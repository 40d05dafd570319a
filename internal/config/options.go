package config

// Options is a loose key/value bag for backend- or parser-specific knobs
// that do not warrant schema fields. JSON numbers arrive as float64; the
// typed getters paper over that.
type Options map[string]any

// GetString returns the string at key, or def when absent or mistyped.
func (o Options) GetString(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// GetBool returns the bool at key, or def when absent or mistyped.
func (o Options) GetBool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// GetInt returns the int at key, accepting JSON's float64 encoding, or def.
func (o Options) GetInt(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns the float at key, or def when absent or mistyped.
func (o Options) GetFloat(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
