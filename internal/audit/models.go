package audit

var schemaVersion = "0.1.0"
var logContext = "audit"

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtExecutionResult  EventType = "execution_result"
	EvtAPIKeysLoaded    EventType = "api_keys_loaded"
	EvtCoursePublished  EventType = "course_published"
	EvtAttachmentStored EventType = "attachment_stored"
)

type Message struct {
	UserID        *string     `json:"user_id"`
	ContentID     *string     `json:"content_id"`
	LogContext    string      `json:"log_context" validate:"required"`
	SchemaVersion string      `json:"version"     validate:"required"`
	Disposition   Disposition `json:"disposition" validate:"required"`
	Type          EventType   `json:"event_type"  validate:"required"`

	Timestamp int64 `json:"timestamp" validate:"required"`
}

type ExecutionResultEvent struct {
	LanguageID int  `json:"language_id" validate:"required"`
	StatusID   int  `json:"status_id"   validate:"required"`
	Cached     bool `json:"cached"`
}

type ExecutionResult struct {
	Event ExecutionResultEvent `json:"event" validate:"required"`
	Message
}

type APIKeysLoadedEvent struct {
	Count int `json:"count"`
}

type APIKeysLoaded struct {
	Event APIKeysLoadedEvent `json:"event" validate:"required"`
	Message
}

type CoursePublishedEvent struct {
	CourseID  string `json:"course_id" validate:"required"`
	Published bool   `json:"published"`
}

type CoursePublished struct {
	Event CoursePublishedEvent `json:"event" validate:"required"`
	Message
}

type AttachmentStoredEvent struct {
	Key  string `json:"key"  validate:"required"`
	Size int64  `json:"size"`
}

type AttachmentStored struct {
	Event AttachmentStoredEvent `json:"event" validate:"required"`
	Message
}
