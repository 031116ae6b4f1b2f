package recall

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pkg/utils"
)

type stubSource struct {
	name   string
	items  map[int64]float64
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.items))
	for id, score := range s.items {
		it := core.NewItem(id)
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: s.name, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func TestFanout_WeightedBlend(t *testing.T) {
	fanout := &Fanout{Sources: []Weighted{
		{Source: &stubSource{name: "a", items: map[int64]float64{1: 1.0, 2: 0.5}}, Weight: 0.4},
		{Source: &stubSource{name: "b", items: map[int64]float64{2: 1.0, 3: 1.0}}, Weight: 0.2},
	}}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := map[int64]float64{
		1: 0.4,       // 0.4*1.0
		2: 0.2 + 0.2, // 0.4*0.5 + 0.2*1.0
		3: 0.2,       // 0.2*1.0
	}
	got := scoresByID(items)
	for id, score := range want {
		if math.Abs(got[id]-score) > 1e-9 {
			t.Errorf("merged score for %d = %v, want %v", id, got[id], score)
		}
	}

	// deterministic ordering: score desc, then id asc
	wantOrder := []int64{1, 2, 3}
	for i, id := range wantOrder {
		if items[i].ID != id {
			t.Errorf("position %d = product %d, want %d", i, items[i].ID, id)
		}
	}
}

func TestFanout_MergesLabels(t *testing.T) {
	fanout := &Fanout{Sources: []Weighted{
		{Source: &stubSource{name: "a", items: map[int64]float64{1: 1.0}}, Weight: 0.5},
		{Source: &stubSource{name: "b", items: map[int64]float64{1: 1.0}}, Weight: 0.5},
	}}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	lbl, ok := items[0].Labels["recall_source"]
	if !ok {
		t.Fatal("missing recall_source label")
	}
	// both sources must be traceable after the merge
	if lbl.Value != "a|b" && lbl.Value != "b|a" {
		t.Errorf("merged label = %q, want both sources accumulated", lbl.Value)
	}
}

func TestFanout_ErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	fanout := &Fanout{Sources: []Weighted{
		{Source: &stubSource{name: "a", items: map[int64]float64{1: 1.0}}, Weight: 0.5},
		{Source: &stubSource{name: "b", err: storeErr}, Weight: 0.5},
	}}

	_, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if !errors.Is(err, storeErr) {
		t.Errorf("Process() error = %v, want the store error to propagate", err)
	}
}

func TestFanout_ZeroWeightSourceSkipped(t *testing.T) {
	fanout := &Fanout{Sources: []Weighted{
		{Source: &stubSource{name: "a", items: map[int64]float64{1: 1.0}}, Weight: 0.4},
		{Source: &stubSource{name: "b", items: map[int64]float64{2: 1.0}}, Weight: 0},
	}}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, ok := scoresByID(items)[2]; ok {
		t.Error("zero-weight source should not contribute candidates")
	}
}
