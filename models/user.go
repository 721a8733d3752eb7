package models

// CurrentUser is the signed-in visitor. There are no credentials; the
// identity only labels reviews.
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
