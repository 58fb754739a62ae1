package cache

import (
	"testing"
	"time"
)

func TestEntry_CanRevalidate(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{name: "nil entry", entry: nil, want: false},
		{name: "no validators", entry: &Entry{Body: []byte("x")}, want: false},
		{name: "etag only", entry: &Entry{ETag: `"v1"`}, want: true},
		{name: "last-modified only", entry: &Entry{LastModified: time.Now()}, want: true},
		{name: "both", entry: &Entry{ETag: `"v1"`, LastModified: time.Now()}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.CanRevalidate(); got != tt.want {
				t.Errorf("CanRevalidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Age(t *testing.T) {
	entry := &Entry{StoredAt: time.Now().Add(-2 * time.Minute)}

	age := entry.Age()
	if age < 2*time.Minute || age > 2*time.Minute+time.Second {
		t.Errorf("Age() = %v, want about 2m", age)
	}
}
