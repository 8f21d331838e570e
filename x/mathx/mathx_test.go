package mathx

import "testing"

func TestClampAndAbs(t *testing.T) {
	if Clamp(-3, 0, 10) != 0 || Clamp(12, 0, 10) != 10 || Clamp(4, 10, 0) != 4 {
		t.Fatal("clamp failed")
	}
	if Abs(-7) != 7 || Abs(int8(3)) != 3 {
		t.Fatal("abs failed")
	}
	if Min(uint16(3), 9) != 3 {
		t.Fatal("min failed")
	}
}

func TestMapU16(t *testing.T) {
	cases := []struct {
		x, inMin, inMax, outMin, outMax, want uint16
	}{
		{0, 0, 255, 0, 1023, 0},
		{255, 0, 255, 0, 1023, 1023},
		{128, 0, 255, 0, 1023, 513},
		{300, 0, 255, 0, 1023, 1023},
		{5, 5, 5, 7, 9, 7},
	}
	for _, c := range cases {
		if got := MapU16(c.x, c.inMin, c.inMax, c.outMin, c.outMax); got != c.want {
			t.Fatalf("MapU16(%d,%d,%d,%d,%d) = %d, want %d", c.x, c.inMin, c.inMax, c.outMin, c.outMax, got, c.want)
		}
	}
}

func TestMapSym_Endpoints(t *testing.T) {
	for _, l := range []int{1, 8, 16, 32, 64} {
		if got := MapSym(0, 1023, l); got != l {
			t.Fatalf("L=%d: raw 0 -> %d, want %d", l, got, l)
		}
		if got := MapSym(1023, 1023, l); got != -l {
			t.Fatalf("L=%d: raw max -> %d, want %d", l, got, -l)
		}
		if got := MapSym(1023/2, 1023, l); Abs(got) > 1 {
			t.Fatalf("L=%d: raw mid -> %d, want ~0", l, got)
		}
	}
}

func TestMapSym_ZeroBoundAlwaysZero(t *testing.T) {
	for r := uint16(0); r <= 1023; r += 31 {
		if got := MapSym(r, 1023, 0); got != 0 {
			t.Fatalf("raw %d with L=0 -> %d, want 0", r, got)
		}
	}
	if MapSym(100, 0, 8) != 0 {
		t.Fatal("zero full scale must map to 0")
	}
}

func TestMapSym_WithinBound(t *testing.T) {
	for l := 0; l <= 32; l++ {
		for r := 0; r <= 1100; r++ {
			got := MapSym(uint16(r), 1023, l)
			if got < -l || got > l {
				t.Fatalf("raw %d L=%d -> %d out of range", r, l, got)
			}
		}
	}
}

func TestMapSym_TruncatesTowardZero(t *testing.T) {
	// 8 - 700*16/1023 = 8 - 10.948.. -> 8 - 10 = -2
	if got := MapSym(700, 1023, 8); got != -2 {
		t.Fatalf("got %d, want -2", got)
	}
	// 8 - 100*16/1023 = 8 - 1.56 -> 7
	if got := MapSym(100, 1023, 8); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
