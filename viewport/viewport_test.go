package viewport

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestFullSpace(t *testing.T) {
	v := New(1280, 800, 0.8)

	sx, sy := v.Full(50, 50)
	if !near(sx, 640) || !near(sy, 400) {
		t.Errorf("expected screen center (640, 400), got (%f, %f)", sx, sy)
	}

	testCases := []struct{ sx, sy float32 }{
		{640, 400},
		{0, 0},
		{1200, 700},
	}
	for _, tc := range testCases {
		px, py := v.ScreenToFull(tc.sx, tc.sy)
		sx, sy := v.Full(px, py)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, px, py, sx, sy)
		}
	}
}

func TestContainer(t *testing.T) {
	v := New(1280, 800, 0.8)

	r := v.ContainerRect()
	// Short side 800 * 0.8 = 640, centered
	if !near(r.W, 640) || !near(r.H, 640) || !near(r.X, 320) || !near(r.Y, 80) {
		t.Errorf("container rect = %+v", r)
	}

	sx, sy := v.InContainer(50, 50)
	if !near(sx, 640) || !near(sy, 400) {
		t.Errorf("container center maps to (%f, %f), want screen center", sx, sy)
	}
	if !near(v.ContainerScale(), 6.4) {
		t.Errorf("container scale = %f, want 6.4", v.ContainerScale())
	}
}

func TestZoom(t *testing.T) {
	v := New(1000, 1000, 0.5)

	v.ZoomBy(10)
	if v.Zoom != v.MaxZoom {
		t.Errorf("zoom = %f, want clamped to %f", v.Zoom, v.MaxZoom)
	}
	if r := v.ContainerRect(); !near(r.W, 1000) {
		t.Errorf("zoomed container width = %f, want 1000", r.W)
	}

	v.SetZoom(0.1)
	if v.Zoom != v.MinZoom {
		t.Errorf("zoom = %f, want clamped to %f", v.Zoom, v.MinZoom)
	}
	v.Reset()
	if v.Zoom != 1 {
		t.Errorf("zoom after reset = %f", v.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	v := New(100, 100, 0.8)

	testCases := []struct {
		x, y, r float32
		want    bool
	}{
		{50, 50, 1, true},
		{-5, 50, 10, true},
		{-20, 50, 10, false},
		{50, 130, 20, false},
	}
	for _, tc := range testCases {
		if got := v.IsVisible(tc.x, tc.y, tc.r); got != tc.want {
			t.Errorf("IsVisible(%v, %v, %v) = %v, want %v", tc.x, tc.y, tc.r, got, tc.want)
		}
	}
}

func TestNewDefaultsContainer(t *testing.T) {
	if v := New(10, 10, 0); v.Container != 0.8 {
		t.Errorf("container = %f, want default 0.8", v.Container)
	}
}
