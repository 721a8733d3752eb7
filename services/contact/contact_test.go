package contact

import (
	"net/url"
	"strings"
	"testing"

	"tradelink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plumber() models.Specialist {
	return models.Specialist{
		Name:        "David Chen",
		CompanyName: "Chen Plumbing Co.",
		Email:       "david@chenplumbing.com",
		Phone:       "+1 (555) 442-8810",
		Specialty:   "Leak Detection",
	}
}

func TestEmailAndCall(t *testing.T) {
	mail, err := Email(plumber())
	require.NoError(t, err)
	assert.Equal(t, "mailto:david@chenplumbing.com", mail)

	tel, err := Call(plumber())
	require.NoError(t, err)
	assert.Equal(t, "tel:+15554428810", tel)

	local := plumber()
	local.Phone = "555.442.8810"
	tel, err = Call(local)
	require.NoError(t, err)
	assert.Equal(t, "tel:5554428810", tel)
}

func TestMissingContactDetails(t *testing.T) {
	rec := plumber()
	rec.Email = "  "
	rec.Phone = "n/a"

	_, err := Email(rec)
	assert.ErrorIs(t, err, ErrNoEmail)
	_, err = Call(rec)
	assert.ErrorIs(t, err, ErrNoPhone)
	_, err = Quote(rec, "Jo", "")
	assert.ErrorIs(t, err, ErrNoEmail)
	assert.Equal(t, Links{}, For(rec))
}

func TestQuotePrefillsSubjectAndBody(t *testing.T) {
	link, err := Quote(plumber(), "Jo Banks", "Kitchen sink is leaking.")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "mailto:david@chenplumbing.com?"))
	assert.NotContains(t, link, "+", "spaces are percent-encoded")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Quote request for Chen Plumbing Co.", q.Get("subject"))
	assert.Equal(t, "Hi David Chen,\n\nKitchen sink is leaking.\n\nThanks,\nJo Banks", q.Get("body"))

	link, err = Quote(plumber(), "", "")
	require.NoError(t, err)
	u, err = url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hi David Chen,\n\nI'd like a quote for leak detection work.\n\nThanks", u.Query().Get("body"))
}
