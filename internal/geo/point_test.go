package geo

import "testing"

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    Point
		wantErr bool
	}{
		{"25.7188,32.6573", Point{25.7188, 32.6573}, false},
		{" 29.9792 , 31.1342 ", Point{29.9792, 31.1342}, false},
		{"91,0", Point{}, true},
		{"0,181", Point{}, true},
		{"abc,1", Point{}, true},
		{"1,abc", Point{}, true},
		{"1", Point{}, true},
	}

	for _, tt := range tests {
		got, err := ParsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePoint(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOrbRoundTrip(t *testing.T) {
	p := Point{Lat: 25.7188, Lng: 32.6573}
	o := p.Orb()
	if o[0] != 32.6573 || o[1] != 25.7188 {
		t.Fatalf("Orb() = %v, want [lng lat]", o)
	}
	if back := FromOrb(o); back != p {
		t.Errorf("FromOrb() = %+v, want %+v", back, p)
	}
}

func TestPointString(t *testing.T) {
	if got := (Point{26.8206, 30.8025}).String(); got != "26.8206, 30.8025" {
		t.Errorf("String() = %q", got)
	}
}
