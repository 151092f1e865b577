package commands

import (
	"context"
	"errors"
	"testing"

	"todo/internal/testutil"
)

func TestParseTaskNum(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{[]string{"1"}, 1, false},
		{[]string{"42"}, 42, false},
		{[]string{"007"}, 7, false},
		{nil, 0, true},
		{[]string{""}, 0, true},
		{[]string{"a"}, 0, true},
		{[]string{"1a"}, 0, true},
		{[]string{"+1"}, 0, true},
		{[]string{"1", "2"}, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTaskNum(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTaskNum(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTaskNum(%q) = %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestParseTaskNum_Required(t *testing.T) {
	if _, err := ParseTaskNum(nil); !errors.Is(err, ErrTaskNumRequired) {
		t.Errorf("expected ErrTaskNumRequired, got %v", err)
	}
}

func TestFindTaskByNumber(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("k1", "wash car")
	svc.AddTask("k2", "read book")

	task, err := findTaskByNumber(context.Background(), svc, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "k2" {
		t.Errorf("expected k2, got %q", task.ID)
	}

	if _, err := findTaskByNumber(context.Background(), svc, 3); !errors.Is(err, ErrTaskNumOutOfRange) {
		t.Errorf("expected ErrTaskNumOutOfRange, got %v", err)
	}
}
