package rating

import "testing"

func TestRecord(t *testing.T) {
	var c Collector

	if err := c.Record(4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := c.Value()
	if !ok || v != 4.5 {
		t.Errorf("expected recorded value 4.5, got %v (recorded=%v)", v, ok)
	}
}

func TestRecordLocksAfterFirstValue(t *testing.T) {
	var c Collector

	if err := c.Record(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Record(5); err != ErrLocked {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if v, _ := c.Value(); v != 3 {
		t.Errorf("locked value changed to %v", v)
	}
}

func TestRecordRange(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr error
	}{
		{"minimum", 0.5, nil},
		{"maximum", 5, nil},
		{"zero", 0, ErrOutOfRange},
		{"above max", 5.5, ErrOutOfRange},
		{"quarter step", 3.25, ErrOutOfRange},
		{"negative", -1, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Collector
			if err := c.Record(tt.v); err != tt.wantErr {
				t.Errorf("Record(%v) = %v, want %v", tt.v, err, tt.wantErr)
			}
		})
	}
}

func TestReset(t *testing.T) {
	var c Collector
	if err := c.Record(2.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Reset()

	if _, ok := c.Value(); ok {
		t.Error("expected no value after reset")
	}
	if err := c.Record(4); err != nil {
		t.Errorf("expected collector to accept a value after reset, got %v", err)
	}
}
