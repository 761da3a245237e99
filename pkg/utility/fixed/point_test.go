package fixed

import (
	"encoding/json"
	"testing"
)

func TestFixedPoint_FromInt64(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		scale int
		want  string
	}{
		{"zero", 0, 0, "0"},
		{"positive", 123, 0, "123"},
		{"negative", -456, 0, "-456"},
		{"with scale", 123, 2, "1.23"},
		{"negative with scale", -456, 3, "-0.456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromInt64(tt.value, tt.scale)
			if got.String() != tt.want {
				t.Errorf("FromInt64(%d, %d) = %s; want %s", tt.value, tt.scale, got.String(), tt.want)
			}
		})
	}
}

func TestFixedPoint_Arithmetic(t *testing.T) {
	a := FromFloat64(1.1000)
	b := FromFloat64(0.0010)

	if got := a.Add(b).String(); got != "1.1010" {
		t.Errorf("Add = %s; want 1.1010", got)
	}
	if got := a.Sub(b).String(); got != "1.0990" {
		t.Errorf("Sub = %s; want 1.0990", got)
	}
	if got := b.MulInt(3).String(); got != "0.0030" {
		t.Errorf("MulInt = %s; want 0.0030", got)
	}
	if !a.Gt(b) || b.Gte(a) {
		t.Error("comparison operators inconsistent")
	}
}

func TestFixedPoint_Rescale(t *testing.T) {
	p := FromFloat64(1.10007)
	if got := p.Rescale(4).String(); got != "1.1001" {
		t.Errorf("Rescale(4) = %s; want 1.1001", got)
	}
	if got := FromFloat64(1.1).Rescale(5).String(); got != "1.10000" {
		t.Errorf("Rescale(5) = %s; want 1.10000", got)
	}
}

func TestFixedPoint_JSONRoundTrip(t *testing.T) {
	in := FromFloat64(1.2345)

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1.2345"` {
		t.Errorf("Marshal = %s; want \"1.2345\"", data)
	}

	var out Point
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !in.Eq(out) {
		t.Errorf("round trip mismatch: %s != %s", in, out)
	}
}

func TestFixedPoint_MinMax(t *testing.T) {
	a := FromInt(1, 0)
	b := FromInt(2, 0)

	if !a.Min(b).Eq(a) {
		t.Error("Min failed")
	}
	if !a.Max(b).Eq(b) {
		t.Error("Max failed")
	}
}
