package utils

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"John Carpenter", []string{"John Carpenter"}},
		{"John Carpenter, Debra Hill", []string{"John Carpenter", "Debra Hill"}},
		{"Horror|Thriller/Sci-Fi", []string{"Horror", "Thriller", "Sci-Fi"}},
		{" , ,a, ", []string{"a"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v，期望 %v", tt.raw, got, tt.want)
		}
	}
}

func TestNameToken(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", ""},
		{"Horror", "horror"},
		{"John Carpenter", "john_carpenter"},
		{"  Jamie   Lee  Curtis ", "jamie_lee_curtis"},
		{"Sci-Fi", "scifi"},
		{"M. Night Shyamalan", "m_night_shyamalan"},
	}
	for _, tt := range tests {
		if got := NameToken(tt.name); got != tt.want {
			t.Errorf("NameToken(%q) = %q，期望 %q", tt.name, got, tt.want)
		}
	}
}

func TestNameTokens(t *testing.T) {
	got := NameTokens([]string{"Horror", "", "  ", "Wes Craven"})
	want := []string{"horror", "wes_craven"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NameTokens = %v，期望 %v", got, want)
	}
}
