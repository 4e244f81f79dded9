package model

// AppLanguage identifies the implementation language in every payload.
const AppLanguage = "Go"

// TimestampLayout is the format of Response.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// StackEntry pairs an extracted error message with its stack trace.
type StackEntry struct {
	Error      string `json:"error"`
	StackTrace string `json:"stackTrace"`
}

// Payload is the structured body forwarded to the collector. Optional fields
// are nil when the call carried no matching data.
type Payload struct {
	AppLanguage  string  `json:"app_language"`
	Facility     string  `json:"facility"`
	Environment  string  `json:"environment"`
	ErrorMessage *string `json:"error_message,omitempty"`
	ErrorStack   *string `json:"error_stack,omitempty"`
	ExtraInfo    *string `json:"extra_info,omitempty"`
}

// Fields flattens the payload, skipping absent optional fields.
func (p Payload) Fields() map[string]any {
	f := map[string]any{
		"app_language": p.AppLanguage,
		"facility":     p.Facility,
		"environment":  p.Environment,
	}
	if p.ErrorMessage != nil {
		f["error_message"] = *p.ErrorMessage
	}
	if p.ErrorStack != nil {
		f["error_stack"] = *p.ErrorStack
	}
	if p.ExtraInfo != nil {
		f["extra_info"] = *p.ExtraInfo
	}
	return f
}

// Response is returned to the caller of a level method.
type Response struct {
	Payload
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}
