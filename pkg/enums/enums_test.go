package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIndexAndLabelRoundTrip(t *testing.T) {
	for _, set := range []Set{
		Status, Directorate, Program, Gender, Ethnicity,
		Achievement, Classification, CertificateStatus,
		Progression, NonCompletionReason,
	} {
		for i, label := range set.Labels() {
			idx, ok := set.Index(label)
			require.True(t, ok, "%s: %q", set.Name(), label)
			assert.Equal(t, i, idx)

			got, ok := set.Label(i)
			require.True(t, ok)
			assert.Equal(t, label, got)
		}
	}
}

func TestDirectorateOrdinals(t *testing.T) {
	// The wire contract depends on these exact positions.
	idx, ok := Directorate.Index("CEx")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = Directorate.Index("F & R")
	require.True(t, ok)
	assert.Equal(t, 5, idx)

	label, ok := Directorate.Label(6)
	require.True(t, ok)
	assert.Equal(t, "School", label)
}

func TestLabelOutOfRange(t *testing.T) {
	_, ok := Status.Label(-1)
	assert.False(t, ok)

	_, ok = Status.Label(Status.Len())
	assert.False(t, ok)
}

func TestContainsIsExact(t *testing.T) {
	assert.True(t, Status.Contains("Live"))
	assert.False(t, Status.Contains("live"))
	assert.False(t, Status.Contains(""))
}

func TestSetSizes(t *testing.T) {
	assert.Equal(t, 5, Status.Len())
	assert.Equal(t, 7, Directorate.Len())
	assert.Equal(t, 4, Program.Len())
	assert.Equal(t, 12, Ethnicity.Len())
	assert.Equal(t, 12, NonCompletionReason.Len())
	assert.Equal(t, 10, Progression.Len())
}
