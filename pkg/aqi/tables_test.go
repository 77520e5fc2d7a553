package aqi

import "testing"

// The conversion assumes each table is ascending, non-overlapping, and starts
// at zero. Pin that here so a table edit can't silently break Convert.
func TestTables_WellFormed(t *testing.T) {
	for p, scale := range scales {
		t.Run(string(p), func(t *testing.T) {
			if scale.Precision <= 0 {
				t.Fatalf("precision = %v, want > 0", scale.Precision)
			}
			if len(scale.Breakpoints) == 0 {
				t.Fatal("no breakpoints")
			}
			if scale.Breakpoints[0].ConcLo != 0 {
				t.Errorf("first ConcLo = %v, want 0", scale.Breakpoints[0].ConcLo)
			}
			if scale.Breakpoints[0].IndexLo != 0 {
				t.Errorf("first IndexLo = %d, want 0", scale.Breakpoints[0].IndexLo)
			}
			last := scale.Breakpoints[len(scale.Breakpoints)-1]
			if last.IndexHi != MaxIndex {
				t.Errorf("last IndexHi = %d, want %d", last.IndexHi, MaxIndex)
			}

			for i, b := range scale.Breakpoints {
				if b.ConcLo >= b.ConcHi {
					t.Errorf("segment %d: ConcLo %v >= ConcHi %v", i, b.ConcLo, b.ConcHi)
				}
				if b.IndexLo >= b.IndexHi {
					t.Errorf("segment %d: IndexLo %d >= IndexHi %d", i, b.IndexLo, b.IndexHi)
				}
				if i == 0 {
					continue
				}
				prev := scale.Breakpoints[i-1]
				if b.ConcLo < prev.ConcHi {
					t.Errorf("segment %d overlaps previous: ConcLo %v < prev ConcHi %v", i, b.ConcLo, prev.ConcHi)
				}
				// Gaps larger than one reporting step would make the table
				// non-total over truncated inputs.
				if b.ConcLo-prev.ConcHi > scale.Precision {
					t.Errorf("segment %d leaves a gap: ConcLo %v, prev ConcHi %v", i, b.ConcLo, prev.ConcHi)
				}
				if b.IndexLo != prev.IndexHi {
					t.Errorf("segment %d: IndexLo %d != prev IndexHi %d", i, b.IndexLo, prev.IndexHi)
				}
			}
		})
	}
}

func TestTable_Lookup(t *testing.T) {
	if _, ok := Table(PM25); !ok {
		t.Error("Table(PM25): expected a scale")
	}
	if _, ok := Table(Pollutant("no2")); ok {
		t.Error("Table(no2): expected no scale")
	}
}
