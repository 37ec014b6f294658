package bundle

// BuildContext is the immutable input to one pipeline run. Created once
// by the caller; read-only for the run's lifetime.
type BuildContext struct {
	Prompt      string
	BusinessID  string
	OwnerID     string
	Mode        string
	Industry    string         // optional industry hint
	Constraints map[string]any // optional free-form constraints
}

// ConstraintInt reads an integer constraint, tolerating the numeric
// types JSON decoding produces. ok is false when absent or non-numeric.
func (c BuildContext) ConstraintInt(key string) (int, bool) {
	v, present := c.Constraints[key]
	if !present {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
