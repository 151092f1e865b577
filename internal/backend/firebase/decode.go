package firebase

import (
	"encoding/json"
	"fmt"
	"io"

	"todo/internal/service"
)

// decodeCollection reads a {"<id>": {"taskName": "..."}} object and keeps
// the keys in the order they appear on the wire. A JSON null body is an
// empty collection.
func decodeCollection(r io.Reader) ([]service.Task, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return []service.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return []service.Task{}, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	tasks := []service.Task{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", keyTok)
		}

		var record wireTask
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		tasks = append(tasks, service.Task{ID: key, Name: record.TaskName})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return tasks, nil
}
