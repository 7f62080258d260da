package offer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusforge/placements/modules/placement/domain/normalize"
)

func strPtr(s string) *string { return &s }

func TestMergeKeepsMaxCompensation(t *testing.T) {
	existing := Offer{RollNo: "22JN1A0501", CompanyName: "TCS", CtcLPA: 7.5, Source: normalize.SourceOnCampus}
	incoming := Offer{RollNo: "22JN1A0501", CompanyName: "TCS", CtcLPA: 4.0, Source: normalize.SourceOnCampus}

	merged := Merge(existing, incoming)
	require.InDelta(t, 7.5, merged.CtcLPA, 1e-9)

	merged = Merge(incoming, existing)
	require.InDelta(t, 7.5, merged.CtcLPA, 1e-9)
}

func TestMergeChannelPriorityIsOneDirectional(t *testing.T) {
	campus := Offer{Source: normalize.SourceOnCampus}
	khub := Offer{Source: normalize.SourceKhub}

	// campus first, mentorship later: campus sticks
	require.Equal(t, normalize.SourceOnCampus, Merge(campus, khub).Source)
	// mentorship first, campus later: campus still wins
	require.Equal(t, normalize.SourceOnCampus, Merge(khub, campus).Source)
}

func TestMergeFillsMissingFieldsOnly(t *testing.T) {
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	existing := Offer{Role: strPtr("SDE"), OfferType: normalize.OfferIT, Source: normalize.SourceOnCampus}
	incoming := Offer{Role: strPtr("Analyst"), OfferType: normalize.OfferCore, OfferDate: &d, Source: normalize.SourceKhub}

	merged := Merge(existing, incoming)
	require.Equal(t, "SDE", *merged.Role)
	require.Equal(t, normalize.OfferIT, merged.OfferType)
	require.Equal(t, d, *merged.OfferDate)
}

func TestCampusSourced(t *testing.T) {
	require.True(t, CampusSourced(normalize.SourceOnCampus))
	require.True(t, CampusSourced(normalize.SourceOffCampus))
	require.True(t, CampusSourced(normalize.SourcePool))
	require.False(t, CampusSourced(normalize.SourceKhub))
	require.False(t, CampusSourced(""))
}
