package normalize

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGender(t *testing.T) {
	cases := map[string]string{
		"M": GenderMale, "male": GenderMale, " MALE ": GenderMale,
		"F": GenderFemale, "Female": GenderFemale,
		"non-binary": GenderOther, "x": GenderOther,
		"": "", "   ": "",
	}
	for in, want := range cases {
		require.Equal(t, want, Gender(in), "input %q", in)
	}
}

func TestOfferType(t *testing.T) {
	cases := map[string]string{
		"IT": OfferIT, "it": OfferIT,
		"NON-IT": OfferNonIT, "NONIT": OfferNonIT, "non it": OfferNonIT,
		"core": OfferCore,
		"":     OfferNA, "whatever": OfferNA,
	}
	for in, want := range cases {
		require.Equal(t, want, OfferType(in), "input %q", in)
	}
}

func TestSource(t *testing.T) {
	cases := map[string]string{
		"off-campus": SourceOffCampus, "OFFCAMPUS": SourceOffCampus,
		"pool drive": SourcePool, "Pooled": SourcePool,
		"on-campus": SourceOnCampus, "": SourceOnCampus, "campus": SourceOnCampus,
	}
	for in, want := range cases {
		require.Equal(t, want, Source(in), "input %q", in)
	}
}

func TestStatuses(t *testing.T) {
	require.Equal(t, FmmlCompleted, FmmlStatus("completed"))
	require.Equal(t, FmmlDropped, FmmlStatus("Dropped out"))
	require.Equal(t, FmmlEnrolled, FmmlStatus(""))
	require.Equal(t, FmmlEnrolled, FmmlStatus("ongoing"))

	require.Equal(t, KhubCompleted, KhubStatus("COMPLETE"))
	require.Equal(t, KhubInactive, KhubStatus("inactive"))
	require.Equal(t, KhubActive, KhubStatus(""))
}

func TestCTCParser(t *testing.T) {
	p := CTCParser{}

	require.InDelta(t, 1.2, p.Parse("10k"), 1e-9)
	require.InDelta(t, 1.8, p.Parse("15000"), 1e-9)
	require.InDelta(t, 7.5, p.Parse("7.5"), 1e-9)
	require.Zero(t, p.Parse(""))
	require.Zero(t, p.Parse("TBD"))

	// currency noise
	require.InDelta(t, 1.2, p.Parse("₹10K"), 1e-9)
	require.InDelta(t, 3.6, p.Parse("Rs. 3.6"), 1e-9)
	require.InDelta(t, 4.2, p.Parse("INR 35000"), 1e-9)

	// the 100..999 band reads as monthly-in-thousands; 100 exactly pins
	// the boundary
	require.InDelta(t, 12.0, p.Parse("100"), 1e-9)
	require.InDelta(t, 18.0, p.Parse("150"), 1e-9)
}

// Parsing is idempotent on already-canonical LPA values.
func TestCTCParserIdempotentBelow100(t *testing.T) {
	p := CTCParser{}
	for _, v := range []string{"0", "3.5", "7.5", "12", "45.25", "99.99"} {
		once := p.Parse(v)
		require.Less(t, once, 100.0)
		twice := p.Parse(strconv.FormatFloat(once, 'f', -1, 64))
		require.InDelta(t, once, twice, 1e-9, "value %s", v)
	}
}

func TestIsPlaceholderCompany(t *testing.T) {
	for _, s := range []string{"", "na", "N/A", " n.a. ", "NONE", "nil", "-", "--", "NA."} {
		require.True(t, IsPlaceholderCompany(s), "input %q", s)
	}
	for _, s := range []string{"TCS", "NAB", "N A", "Infosys"} {
		require.False(t, IsPlaceholderCompany(s), "input %q", s)
	}
}

func TestDate(t *testing.T) {
	require.Nil(t, Date(""))
	require.Nil(t, Date("not a date"))
	d := Date("2025-03-15")
	require.NotNil(t, d)
	require.Equal(t, 2025, d.Year())
}

func TestFloat(t *testing.T) {
	v, err := Float("")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = Float("85.5")
	require.NoError(t, err)
	require.InDelta(t, 85.5, *v, 1e-9)

	_, err = Float("eighty")
	require.Error(t, err)
}
