package main

import (
	"testing"

	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Three 80px columns: ten characters each plus a separator.
func threeColumns() []sheet.Column {
	return []sheet.Column{
		{Key: "a", Title: "A", Width: 80},
		{Key: "b", Title: "B", Width: 80},
		{Key: "c", Title: "C", Width: 80},
	}
}

func TestColumnChars(t *testing.T) {
	tests := []struct {
		col  sheet.Column
		want int
	}{
		{sheet.Column{Width: 80}, 10},
		{sheet.Column{Width: 84}, 10},
		{sheet.Column{Width: 8}, minChars},
		{sheet.Column{}, sheet.Column{}.ClampWidth(0) / cellPx},
	}
	for _, tt := range tests {
		if got := columnChars(tt.col); got != tt.want {
			t.Errorf("columnChars(width %d) = %d, want %d", tt.col.Width, got, tt.want)
		}
	}
}

func TestHitTest(t *testing.T) {
	// 40x10 screen: header on line 0, six body lines, footer below.
	l := newLayout(threeColumns(), 4, 40, 10, 0, 0)
	tests := []struct {
		name string
		x, y int
		want hit
	}{
		{"first cell", 3, 1, hit{hitCell, 0, 0}},
		{"cell end", 12, 1, hit{hitCell, 0, 0}},
		{"body separator", 13, 2, hit{hitCell, 1, 0}},
		{"second column", 14, 2, hit{hitCell, 1, 1}},
		{"header", 20, 0, hit{hitHeader, -1, 1}},
		{"header border", 24, 0, hit{hitBorder, -1, 1}},
		{"handle", 0, 4, hit{hitHandle, 3, -1}},
		{"toggle", 1, 4, hit{hitToggle, 3, -1}},
		{"gutter space", 2, 4, hit{hitNone, 3, -1}},
		{"header gutter", 0, 0, hit{hitNone, -1, -1}},
		{"below last row", 5, 5, hit{hitNone, -1, -1}},
		{"footer", 5, 8, hit{hitNone, -1, -1}},
		{"right of columns", 38, 1, hit{hitNone, -1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.hitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("hitTest(%d, %d) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitTestScrolled(t *testing.T) {
	l := newLayout(threeColumns(), 20, 40, 10, 5, 1)
	if got, want := l.hitTest(3, 1), (hit{hitCell, 5, 1}); got != want {
		t.Errorf("hitTest = %+v, want %+v", got, want)
	}
	if _, ok := l.rowY(4); ok {
		t.Error("row above the scroll offset is on screen")
	}
	if y, ok := l.rowY(10); !ok || y != 6 {
		t.Errorf("rowY(10) = %d, %v", y, ok)
	}
	if _, ok := l.rowY(11); ok {
		t.Error("row below the body is on screen")
	}
	if _, _, ok := l.colX(0); ok {
		t.Error("column left of the scroll offset is on screen")
	}
}

func TestScrollTo(t *testing.T) {
	cols := threeColumns()
	tests := []struct {
		name          string
		w, h          int
		top, left     int
		r, c          int
		wantTop, wLft int
	}{
		{"in view", 40, 10, 0, 0, 3, 1, 0, 0},
		{"below", 40, 10, 0, 0, 9, 0, 4, 0},
		{"above", 40, 10, 5, 0, 2, 0, 2, 0},
		{"right", 20, 10, 0, 0, 0, 2, 0, 2},
		{"left", 40, 10, 0, 2, 0, 0, 0, 0},
		{"fits two", 30, 10, 0, 0, 0, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, left := scrollTo(cols, tt.w, tt.h, tt.top, tt.left, tt.r, tt.c)
			if top != tt.wantTop || left != tt.wLft {
				t.Errorf("scrollTo = (%d, %d), want (%d, %d)", top, left, tt.wantTop, tt.wLft)
			}
		})
	}
}
