package evaluator

import (
	"testing"

	"github.com/lox/mahjongforbots/internal/tile"
)

func TestIsPair(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		tiles string
		want  bool
	}{
		{"identical tiles", "5b 5b", true},
		{"honor pair", "rd rd", true},
		{"different values", "5b 6b", false},
		{"different suits", "5b 5c", false},
		{"wrong arity", "5b 5b 5b", false},
		{"single tile", "5b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPair(tile.MustParseTiles(tt.tiles)); got != tt.want {
				t.Errorf("IsPair(%s) = %v, want %v", tt.tiles, got, tt.want)
			}
		})
	}
}

func TestIsPung(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		tiles string
		want  bool
	}{
		{"suited triplet", "7c 7c 7c", true},
		{"wind triplet", "nw nw nw", true},
		{"mixed values", "7c 7c 8c", false},
		{"wrong arity", "7c 7c", false},
		{"four tiles", "7c 7c 7c 7c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPung(tile.MustParseTiles(tt.tiles)); got != tt.want {
				t.Errorf("IsPung(%s) = %v, want %v", tt.tiles, got, tt.want)
			}
		})
	}
}

func TestIsKong(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		tiles string
		want  bool
	}{
		{"four identical", "2d 2d 2d 2d", true},
		{"dragon kong", "gd gd gd gd", true},
		{"three tiles", "2d 2d 2d", false},
		{"one stray", "2d 2d 2d 3d", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKong(tile.MustParseTiles(tt.tiles)); got != tt.want {
				t.Errorf("IsKong(%s) = %v, want %v", tt.tiles, got, tt.want)
			}
		})
	}
}

func TestIsChow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		tiles string
		want  bool
	}{
		{"ascending run", "3b 4b 5b", true},
		{"unsorted run", "5d 3d 4d", true},
		{"terminal run", "7c 8c 9c", true},
		{"gap", "3b 4b 6b", false},
		{"mixed suits", "3b 4c 5b", false},
		{"honors never chow", "ew sw ww", false},
		{"duplicate tile", "3b 3b 4b", false},
		{"wrong arity", "3b 4b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsChow(tile.MustParseTiles(tt.tiles)); got != tt.want {
				t.Errorf("IsChow(%s) = %v, want %v", tt.tiles, got, tt.want)
			}
		})
	}
}
