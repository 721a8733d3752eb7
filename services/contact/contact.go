// Package contact builds the mailto: and tel: links used to reach a
// specialist. The links are handed to the client; delivery is not tracked.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tradelink/models"
)

var (
	ErrNoEmail = errors.New("specialist has no email address")
	ErrNoPhone = errors.New("specialist has no phone number")
)

// Links is what the detail page offers.
type Links struct {
	Email string `json:"email,omitempty"`
	Call  string `json:"call,omitempty"`
}

// For returns whichever links the specialist's contact details allow.
func For(rec models.Specialist) Links {
	var l Links
	if u, err := Email(rec); err == nil {
		l.Email = u
	}
	if u, err := Call(rec); err == nil {
		l.Call = u
	}
	return l
}

func Email(rec models.Specialist) (string, error) {
	addr := strings.TrimSpace(rec.Email)
	if addr == "" {
		return "", ErrNoEmail
	}
	return (&url.URL{Scheme: "mailto", Opaque: addr}).String(), nil
}

// Call keeps only digits and a leading plus sign.
func Call(rec models.Specialist) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(rec.Phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.TrimPrefix(digits, "+") == "" {
		return "", ErrNoPhone
	}
	return "tel:" + digits, nil
}

// Quote builds a prefilled quote request email.
func Quote(rec models.Specialist, from, message string) (string, error) {
	addr := strings.TrimSpace(rec.Email)
	if addr == "" {
		return "", ErrNoEmail
	}

	subject := "Quote request"
	if rec.CompanyName != "" {
		subject = fmt.Sprintf("Quote request for %s", rec.CompanyName)
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", rec.Name)
	if msg := strings.TrimSpace(message); msg != "" {
		body.WriteString(msg)
		body.WriteString("\n\n")
	} else {
		fmt.Fprintf(&body, "I'd like a quote for %s work.\n\n", strings.ToLower(rec.Specialty))
	}
	if from = strings.TrimSpace(from); from != "" {
		fmt.Fprintf(&body, "Thanks,\n%s", from)
	} else {
		body.WriteString("Thanks")
	}

	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body.String())
	// mailto readers expect %20 rather than + for spaces.
	query := strings.ReplaceAll(q.Encode(), "+", "%20")
	return "mailto:" + addr + "?" + query, nil
}
