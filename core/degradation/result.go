package degradation

// Result is the caller-facing outcome of a dataset summary run. The batch
// path always returns a value: failures are captured in Err instead of
// propagating, so the summary endpoint can serve a well-formed payload.
type Result struct {
	Summary Summary
	Err     string
}

// Succeed wraps a computed summary.
func Succeed(s Summary) Result { return Result{Summary: s} }

// Fail wraps a load or compute failure message.
func Fail(msg string) Result { return Result{Err: msg} }

// OK reports whether the run produced a summary.
func (r Result) OK() bool { return r.Err == "" }

// Payload returns the JSON-serializable form: the summary on success, or an
// {"error": ...} object on failure.
func (r Result) Payload() any {
	if r.OK() {
		return r.Summary
	}
	return map[string]string{"error": r.Err}
}
