package token

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only stop words", "the of a is", []string{}},
		{"punctuation", "Two-Sum!!! (easy)", []string{"two-sum", "easy"}},
		{"stemming", "reversing linked lists quickly", []string{"revers", "link", "list", "quick"}},
		{"stop words dropped before stem", "reverse a linked list", []string{"reverse", "link", "list"}},
		{"hyphen runs collapse", "0--1 matrix", []string{"0-1", "matrix"}},
		{"order preserved", "matrix coin two", []string{"matrix", "coin", "two"}},
		{"accents folded", "Café Déjà", []string{"cafe", "deja"}},
		{"es before s", "matches", []string{"match"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "I was asked a variation of Coin Change, modified for 2D grids"
	first := Normalize(in)
	for range 5 {
		if got := Normalize(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("Normalize not deterministic: %v vs %v", got, first)
		}
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"linked":  "link",
		"sorting": "sort",
		"boxes":   "box",
		"coins":   "coin",
		"weekly":  "week",
		"s":       "",
		"a--b":    "a-b",
		"list":    "list",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSet(t *testing.T) {
	s := Set([]string{"a", "b", "a"})
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if _, ok := s["b"]; !ok {
		t.Error("missing b")
	}
}
