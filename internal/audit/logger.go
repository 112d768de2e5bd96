// Package audit emits line oriented JSON events for the actions reviewers
// care about after the fact: judged runs, key rotations, publishing and file
// uploads. Events go to stdout alongside regular logs and are not load
// bearing; serialization failures are logged and swallowed.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Bab4nI/Jaba/internal/logger"
	"github.com/Bab4nI/Jaba/internal/types"
)

type Context struct {
	UserID    *string
	ContentID *string
}

func dispForStatus(statusID int) Disposition {
	switch statusID {
	case types.StatusAccepted:
		return DispositionGood
	case types.StatusInQueue, types.StatusProcessing:
		return DispositionNeutral
	default:
		return DispositionBad
	}
}

func LogExecutionResult(c Context, languageID int, statusID int, cached bool) {
	event := ExecutionResult{}
	event.Type = EvtExecutionResult

	event.LogContext = logContext
	event.SchemaVersion = schemaVersion

	event.Timestamp = time.Now().UTC().UnixMilli()
	event.UserID = c.UserID
	event.ContentID = c.ContentID

	event.Disposition = dispForStatus(statusID)

	event.Event.LanguageID = languageID
	event.Event.StatusID = statusID
	event.Event.Cached = cached

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize ExecutionResult event",
			"languageID",
			languageID,
			"statusID",
			statusID,
			"cached",
			cached,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogAPIKeysLoaded(count int) {
	event := APIKeysLoaded{}
	event.Type = EvtAPIKeysLoaded

	event.LogContext = logContext
	event.SchemaVersion = schemaVersion

	event.Timestamp = time.Now().UTC().UnixMilli()

	event.Disposition = DispositionNeutral

	event.Event.Count = count

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error("could not serialize APIKeysLoaded event", "count", count)
		return
	}

	fmt.Println(string(evtStr))
}

func LogCoursePublished(c Context, courseID string, published bool) {
	event := CoursePublished{}
	event.Type = EvtCoursePublished

	event.LogContext = logContext
	event.SchemaVersion = schemaVersion

	event.Timestamp = time.Now().UTC().UnixMilli()
	event.UserID = c.UserID

	event.Disposition = DispositionNeutral

	event.Event.CourseID = courseID
	event.Event.Published = published

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize CoursePublished event",
			"courseID",
			courseID,
			"published",
			published,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogAttachmentStored(c Context, key string, size int64) {
	event := AttachmentStored{}
	event.Type = EvtAttachmentStored

	event.LogContext = logContext
	event.SchemaVersion = schemaVersion

	event.Timestamp = time.Now().UTC().UnixMilli()
	event.UserID = c.UserID
	event.ContentID = c.ContentID

	event.Disposition = DispositionNeutral

	event.Event.Key = key
	event.Event.Size = size

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize AttachmentStored event",
			"key",
			key,
			"size",
			size,
		)
		return
	}

	fmt.Println(string(evtStr))
}
