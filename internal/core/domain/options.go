package domain

// Options are the named values supplied with a slash command, decoded from
// the platform payload. Each handler extracts and validates its own fields,
// failing fast on anything malformed.
type Options map[string]any

func (o Options) String(name string) (string, bool) {
	v, ok := o[name].(string)
	return v, ok
}

func (o Options) Bool(name string) (bool, bool) {
	v, ok := o[name].(bool)
	return v, ok
}

func (o Options) Int(name string) (int64, bool) {
	switch v := o[name].(type) {
	case int64:
		return v, true
	case float64:
		// JSON numbers decode as float64.
		return int64(v), true
	default:
		return 0, false
	}
}

// OptionalString returns a pointer for options that may be absent.
func (o Options) OptionalString(name string) *string {
	if v, ok := o.String(name); ok {
		return &v
	}
	return nil
}
