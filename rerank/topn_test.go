package rerank

import (
	"context"
	"testing"

	"github.com/shopstream/shoprec/core"
)

func TestTopN(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		items []*core.Item
		want  []int64
	}{
		{
			name:  "sorts by score descending",
			n:     10,
			items: []*core.Item{item(1, 0.2), item(2, 0.9), item(3, 0.5)},
			want:  []int64{2, 3, 1},
		},
		{
			name:  "equal scores break by id ascending",
			n:     10,
			items: []*core.Item{item(7, 0.5), item(3, 0.5), item(5, 0.5)},
			want:  []int64{3, 5, 7},
		},
		{
			name:  "truncates to n",
			n:     2,
			items: []*core.Item{item(1, 0.9), item(2, 0.8), item(3, 0.7)},
			want:  []int64{1, 2},
		},
		{
			name:  "non-positive n keeps everything",
			n:     0,
			items: []*core.Item{item(1, 0.1), item(2, 0.2)},
			want:  []int64{2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{N: tt.n}
			out, err := node.Process(context.Background(), nil, tt.items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(out), len(tt.want))
			}
			for i, id := range tt.want {
				if out[i].ID != id {
					t.Errorf("position %d = product %d, want %d", i, out[i].ID, id)
				}
			}
		})
	}
}
