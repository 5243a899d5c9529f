package activity

import (
	"testing"

	"gobioact/domain/descriptor"
)

func TestClassifyPotency_Boundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  BioactivityClass
	}{
		{0, ClassActive},
		{999, ClassActive},
		{1000, ClassActive},
		{1001, ClassIntermediate},
		{5000, ClassIntermediate},
		{9999, ClassIntermediate},
		{10000, ClassInactive},
		{1e9, ClassInactive},
	}

	for _, tt := range tests {
		for run := 0; run < 3; run++ {
			if got := ClassifyPotency(tt.value); got != tt.want {
				t.Errorf("ClassifyPotency(%v) = %s, want %s", tt.value, got, tt.want)
			}
		}
	}
}

func TestDescriptorRecord_Value(t *testing.T) {
	r := DescriptorRecord{
		PotencyRecord: PotencyRecord{PIC50: 6.3},
		Scores:        map[descriptor.Name]float64{descriptor.MW: 300.5},
	}

	if v, ok := r.Value(ColPIC50); !ok || v != 6.3 {
		t.Errorf("pIC50 column = %v,%v", v, ok)
	}
	if v, ok := r.Value("MW"); !ok || v != 300.5 {
		t.Errorf("MW column = %v,%v", v, ok)
	}
	if _, ok := r.Value("LogP"); ok {
		t.Error("LogP was not computed and must be absent")
	}
}

func TestClassCounts(t *testing.T) {
	var c ClassCounts
	c.Add(ClassActive)
	c.Add(ClassIntermediate)
	if c.Comparable() {
		t.Error("no inactive records yet")
	}
	c.Add(ClassInactive)
	if !c.Comparable() {
		t.Error("both groups populated")
	}
}
