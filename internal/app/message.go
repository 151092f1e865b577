package app

import (
	"errors"

	"todo/internal/service"
	"todo/internal/tasklist"
)

// UserMessage turns an error into a short line for a page's status area.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var se *service.Error
	switch {
	case errors.Is(err, service.ErrEmptyTask):
		return "Enter a task name first."
	case errors.Is(err, ErrStale):
		return "The list changed; nothing was deleted."
	case errors.Is(err, tasklist.ErrOutOfRange):
		return "That task is no longer in the list."
	case errors.As(err, &se) && se.Kind == service.KindTransport:
		return "Could not reach the task store."
	case errors.As(err, &se) && se.Kind == service.KindStatus:
		return "The task store rejected the request (" + se.Error() + ")."
	case errors.As(err, &se) && se.Kind == service.KindDecode:
		return "The task store sent an unreadable response."
	default:
		return err.Error()
	}
}
