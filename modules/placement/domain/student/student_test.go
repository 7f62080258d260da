package student

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fl(f float64) *float64 { return &f }

func TestMergeIncomingNonNullWins(t *testing.T) {
	existing := Student{RollNo: "22JN1A0501", Name: "Unknown", College: "KIET", Gender: "Male", TenthPct: fl(80)}
	incoming := Student{RollNo: "22JN1A0501", Name: "Jane Smith", Branch: "CSE", TwelfthPct: fl(88.5)}

	merged := Merge(existing, incoming)
	require.Equal(t, "Jane Smith", merged.Name)
	require.Equal(t, "KIET", merged.College)
	require.Equal(t, "CSE", merged.Branch)
	require.Equal(t, "Male", merged.Gender)
	require.InDelta(t, 80, *merged.TenthPct, 1e-9)
	require.InDelta(t, 88.5, *merged.TwelfthPct, 1e-9)
}

func TestMergeNullNeverErases(t *testing.T) {
	existing := Student{Name: "Jane Smith", Gender: "Female", GradCGPA: fl(8.8)}
	merged := Merge(existing, Student{})
	require.Equal(t, existing, merged)
}
