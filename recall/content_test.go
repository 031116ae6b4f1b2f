package recall

import (
	"context"
	"math"
	"testing"

	"github.com/shopstream/shoprec/core"
)

type stubContentStore struct {
	user     *core.User
	events   []core.HistoryEvent
	products map[int64]*core.Product
}

func (s *stubContentStore) GetUser(_ context.Context, id int64) (*core.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, core.ErrStoreNotFound
	}
	return s.user, nil
}

func (s *stubContentStore) GetRecentHistory(_ context.Context, userID int64, limit int) ([]core.HistoryEvent, error) {
	out := make([]core.HistoryEvent, 0)
	for _, ev := range s.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubContentStore) GetProductsByIDs(_ context.Context, ids []int64) ([]*core.Product, error) {
	out := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubContentStore) GetInStockProducts(_ context.Context) ([]*core.Product, error) {
	out := make([]*core.Product, 0)
	for _, p := range s.products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func newContentFixture() *stubContentStore {
	return &stubContentStore{
		user: &core.User{
			ID: 1,
			Preferences: core.Preferences{
				Categories: []string{"Electronics"},
				Brands:     []string{"Apple"},
			},
		},
		events: []core.HistoryEvent{
			{UserID: 1, ProductID: 10, Action: core.ActionView},
			{UserID: 1, ProductID: 10, Action: core.ActionClick},
			{UserID: 1, ProductID: 11, Action: core.ActionView},
		},
		products: map[int64]*core.Product{
			// history items
			10: {ID: 10, Category: "Electronics", Brand: "Apple", Stock: 5},
			11: {ID: 11, Category: "Sports", Brand: "Nike", Stock: 5},
			// candidates
			20: {ID: 20, Category: "Electronics", Brand: "Apple", Stock: 5, Rating: 4.0, NumRatings: 12},
			21: {ID: 21, Category: "Sports", Stock: 5},
			22: {ID: 22, Category: "Home", Brand: "Dyson", Stock: 5},
		},
	}
}

func TestContent_FeatureWeights(t *testing.T) {
	store := newContentFixture()
	src := &Content{Store: store, HistoryWindow: 50}

	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	scores := scoresByID(items)

	// Product 20: category freq 2/2*0.4 + brand freq 2/2*0.3 +
	// preferred category 0.2 + preferred brand 0.1 + rating 4/5*0.1.
	want20 := 0.4 + 0.3 + 0.2 + 0.1 + 0.08
	if got := scores[20]; math.Abs(got-want20) > 1e-9 {
		t.Errorf("score for 20 = %v, want %v", got, want20)
	}

	// Product 21: category freq 1/2*0.4 only (no brand, no preference, unrated).
	want21 := 0.2
	if got := scores[21]; math.Abs(got-want21) > 1e-9 {
		t.Errorf("score for 21 = %v, want %v", got, want21)
	}

	// Product 22 matches nothing: zero scores are dropped.
	if _, ok := scores[22]; ok {
		t.Errorf("product 22 has no signal and should be dropped")
	}
}

func TestContent_ViewedItemsExcluded(t *testing.T) {
	store := newContentFixture()
	src := &Content{Store: store, HistoryWindow: 50}

	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	scores := scoresByID(items)

	for _, viewed := range []int64{10, 11} {
		if _, ok := scores[viewed]; ok {
			t.Errorf("already viewed product %d should be excluded", viewed)
		}
	}
}

func TestContent_UnknownUserMeansEmptyPreferences(t *testing.T) {
	store := newContentFixture()
	store.user = nil // preference lookup misses; history still scores
	src := &Content{Store: store, HistoryWindow: 50}

	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	scores := scoresByID(items)

	// Product 20 loses both preference bonuses but keeps behavior signals.
	want20 := 0.4 + 0.3 + 0.08
	if got := scores[20]; math.Abs(got-want20) > 1e-9 {
		t.Errorf("score for 20 = %v, want %v", got, want20)
	}
}

func TestContent_NoHistoryNoPreferences(t *testing.T) {
	// Without behavior or preference signal only the rating boost remains,
	// so rated products survive and unrated ones drop out.
	store := newContentFixture()
	store.events = nil
	store.user = nil
	src := &Content{Store: store, HistoryWindow: 50}

	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: 1})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	scores := scoresByID(items)

	if got := scores[20]; math.Abs(got-0.08) > 1e-9 {
		t.Errorf("score for 20 = %v, want 0.08 (rating boost only)", got)
	}
	for _, id := range []int64{21, 22} {
		if _, ok := scores[id]; ok {
			t.Errorf("unrated product %d should be dropped without any signal", id)
		}
	}
}
