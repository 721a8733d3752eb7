package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Directory endpoints
	ListCategoriesHandler     gin.HandlerFunc
	ListSpecialistsHandler    gin.HandlerFunc
	GetSpecialistHandler      gin.HandlerFunc
	UpdateSpecialistHandler   gin.HandlerFunc
	SubmitReviewHandler       gin.HandlerFunc
	ToggleAvailabilityHandler gin.HandlerFunc
	SetProfileImageHandler    gin.HandlerFunc
	ContactHandler            gin.HandlerFunc
	QuoteHandler              gin.HandlerFunc

	// Registration endpoints
	OpenRegistrationHandler  gin.HandlerFunc
	GetRegistrationHandler   gin.HandlerFunc
	SubmitDetailsHandler     gin.HandlerFunc
	RegistrationBackHandler  gin.HandlerFunc
	StartPaymentHandler      gin.HandlerFunc
	CloseRegistrationHandler gin.HandlerFunc

	// Identity endpoints
	LoginHandler  gin.HandlerFunc
	LogoutHandler gin.HandlerFunc
	MeHandler     gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler's endpoints into a bundle.
func NewHandlerBundle(dir *DirectoryHandler, reg *RegistrationHandler, auth *AuthHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		ListCategoriesHandler:     dir.ListCategoriesHandler,
		ListSpecialistsHandler:    dir.ListSpecialistsHandler,
		GetSpecialistHandler:      dir.GetSpecialistHandler,
		UpdateSpecialistHandler:   dir.UpdateSpecialistHandler,
		SubmitReviewHandler:       dir.SubmitReviewHandler,
		ToggleAvailabilityHandler: dir.ToggleAvailabilityHandler,
		SetProfileImageHandler:    dir.SetProfileImageHandler,
		ContactHandler:            dir.ContactHandler,
		QuoteHandler:              dir.QuoteHandler,

		OpenRegistrationHandler:  reg.OpenHandler,
		GetRegistrationHandler:   reg.GetHandler,
		SubmitDetailsHandler:     reg.SubmitDetailsHandler,
		RegistrationBackHandler:  reg.BackHandler,
		StartPaymentHandler:      reg.StartPaymentHandler,
		CloseRegistrationHandler: reg.CloseHandler,

		LoginHandler:  auth.LoginHandler,
		LogoutHandler: auth.LogoutHandler,
		MeHandler:     auth.MeHandler,

		HealthHandler: health.Handler,
	}
}
