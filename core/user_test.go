package core

import (
	"reflect"
	"testing"
)

func TestDecodePreferences(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Preferences
	}{
		{
			name: "full record",
			data: `{"categories":["Electronics","Sports"],"brands":["Apple"]}`,
			want: Preferences{Categories: []string{"Electronics", "Sports"}, Brands: []string{"Apple"}},
		},
		{
			name: "empty input",
			data: "",
			want: Preferences{},
		},
		{
			name: "malformed json",
			data: `{"categories": [`,
			want: Preferences{},
		},
		{
			name: "wrong shape",
			data: `["Electronics"]`,
			want: Preferences{},
		},
		{
			name: "empty object",
			data: `{}`,
			want: Preferences{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePreferences([]byte(tt.data))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodePreferences(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestPreferencesLookups(t *testing.T) {
	p := Preferences{Categories: []string{"Electronics"}, Brands: []string{"Apple", "Sony"}}

	if !p.HasCategory("Electronics") || p.HasCategory("Sports") {
		t.Errorf("HasCategory misbehaves: %+v", p)
	}
	if !p.HasBrand("Sony") || p.HasBrand("Nike") {
		t.Errorf("HasBrand misbehaves: %+v", p)
	}
	if p.Empty() {
		t.Error("Empty() = true for populated preferences")
	}
	if !(Preferences{}).Empty() {
		t.Error("Empty() = false for zero value")
	}
}

func TestRatingValidScore(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{1.0, true},
		{5.0, true},
		{3.5, true},
		{0.9, false},
		{5.1, false},
		{0, false},
	}
	for _, tt := range tests {
		r := Rating{Score: tt.score}
		if got := r.ValidScore(); got != tt.want {
			t.Errorf("ValidScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
