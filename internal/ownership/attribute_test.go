package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeCountsPerAuthor(t *testing.T) {
	records := []LineAttribution{
		{AuthorAddress: "alice@example.com"},
		{AuthorAddress: "alice@example.com"},
		{AuthorAddress: "bob@example.com"},
		{AuthorAddress: "alice@example.com"},
	}

	hist := Attribute(records)

	assert.Equal(t, Histogram{
		"alice@example.com": 3,
		"bob@example.com":   1,
	}, hist)
	assert.Equal(t, 4, hist.Lines())
}

func TestAttributeNormalizesAddresses(t *testing.T) {
	// All four variants belong to the same contributor.
	records := []LineAttribution{
		{AuthorAddress: "Jane.Doe@gmail.com"},
		{AuthorAddress: "janedoe@gmail.com"},
		{AuthorAddress: "jane.doe+work@GMAIL.com"},
		{AuthorAddress: " jane.doe@gmail.com "},
	}

	hist := Attribute(records)

	assert.Equal(t, Histogram{"janedoe@gmail.com": 4}, hist)
}

func TestAttributeDropsUnresolvableRecords(t *testing.T) {
	records := []LineAttribution{
		{AuthorAddress: ""},
		{AuthorAddress: "   "},
		{AuthorAddress: "carol@example.com"},
	}

	hist := Attribute(records)

	assert.Equal(t, Histogram{"carol@example.com": 1}, hist)
}

func TestAttributeEmptyInputYieldsEmptyHistogram(t *testing.T) {
	hist := Attribute(nil)

	assert.NotNil(t, hist)
	assert.Empty(t, hist)

	hist = Attribute([]LineAttribution{{AuthorAddress: ""}})
	assert.Empty(t, hist, "unknown-only files end up with no attributable lines")
}

func TestHistogramPrimaryOwner(t *testing.T) {
	t.Run("clear maximum", func(t *testing.T) {
		owner, ok := Histogram{"alice@x.com": 10, "bob@x.com": 2}.PrimaryOwner()
		assert.True(t, ok)
		assert.Equal(t, "alice@x.com", owner)
	})

	t.Run("tie goes to lexicographically smallest", func(t *testing.T) {
		owner, ok := Histogram{"zoe@x.com": 5, "amy@x.com": 5, "mia@x.com": 5}.PrimaryOwner()
		assert.True(t, ok)
		assert.Equal(t, "amy@x.com", owner)
	})

	t.Run("empty histogram has no owner", func(t *testing.T) {
		_, ok := Histogram{}.PrimaryOwner()
		assert.False(t, ok)
	})
}
