package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setOf(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		global  Set
		scope   []int
		desired []int
		want    Set
	}{
		{
			name:    "select on empty set",
			global:  setOf(),
			scope:   []int{1, 2, 3},
			desired: []int{2},
			want:    setOf(2),
		},
		{
			name:    "deselect",
			global:  setOf(1, 2),
			scope:   []int{1, 2, 3},
			desired: []int{1},
			want:    setOf(1),
		},
		{
			name:    "clear page keeps other pages",
			global:  setOf(1, 2, 40, 41),
			scope:   []int{1, 2, 3},
			desired: nil,
			want:    setOf(40, 41),
		},
		{
			name:    "desired outside scope ignored",
			global:  setOf(),
			scope:   []int{1, 2},
			desired: []int{2, 99},
			want:    setOf(2),
		},
		{
			name:    "empty scope is a no-op",
			global:  setOf(5),
			scope:   nil,
			desired: []int{5, 6},
			want:    setOf(5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reconcile(tt.global, tt.scope, tt.desired)
			assert.Equal(t, tt.want, tt.global)
		})
	}
}
