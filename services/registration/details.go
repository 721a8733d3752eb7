package registration

import (
	"encoding/base64"
	"strings"

	"tradelink/models"
	"tradelink/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// Details is the profile form filled in at the first step.
type Details struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
	Specialty   string `json:"specialty" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Location    string `json:"location" validate:"required"`
	// Image is an optional data: URI. Empty means the category icon.
	Image string `json:"image,omitempty" validate:"omitempty,datauri"`
}

func trimDetails(d Details) Details {
	d.Name = strings.TrimSpace(d.Name)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Location = strings.TrimSpace(d.Location)
	d.Image = strings.TrimSpace(d.Image)
	return d
}

// validateDetails returns nil or a *ValidationError naming every bad field.
func validateDetails(d Details) error {
	var fields []string
	if err := utils.Validator().Struct(d); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
	}
	if d.Image != "" && !containsField(fields, "image") && !IsImageDataURI(d.Image) {
		fields = append(fields, "image")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// IsImageDataURI decodes a base64 data: URI and sniffs the payload. The
// declared media type is ignored.
func IsImageDataURI(uri string) bool {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil || len(raw) == 0 {
		return false
	}
	return strings.HasPrefix(mimetype.Detect(raw).String(), "image/")
}

// profileImage picks the uploaded image or falls back to the category icon.
func profileImage(d Details, categoryID string) models.ProfileImage {
	if d.Image == "" {
		return models.IconImage(categoryID)
	}
	return models.UploadedImage(d.Image)
}
