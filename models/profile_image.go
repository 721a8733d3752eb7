package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ImageKind tags which variant a ProfileImage holds.
type ImageKind string

const (
	ImageIcon     ImageKind = "icon"
	ImageUploaded ImageKind = "uploaded"
)

// iconPrefix is the legacy string form of an icon placeholder.
const iconPrefix = "icon:"

// ProfileImage is either the icon of a category or an uploaded image URI
// (usually a data: URI).
type ProfileImage struct {
	Kind       ImageKind `json:"kind"`
	CategoryID string    `json:"categoryId,omitempty"`
	URI        string    `json:"uri,omitempty"`
}

func IconImage(categoryID string) ProfileImage {
	return ProfileImage{Kind: ImageIcon, CategoryID: categoryID}
}

func UploadedImage(uri string) ProfileImage {
	return ProfileImage{Kind: ImageUploaded, URI: uri}
}

func (p ProfileImage) IsIcon() bool { return p.Kind == ImageIcon }

func (p ProfileImage) IsZero() bool { return p == ProfileImage{} }

// UnmarshalJSON accepts the tagged object form as well as the older bare
// string form ("icon:<category>" or a plain URI).
func (p *ProfileImage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		if strings.HasPrefix(raw, iconPrefix) {
			*p = IconImage(strings.TrimPrefix(raw, iconPrefix))
		} else if raw == "" {
			*p = ProfileImage{}
		} else {
			*p = UploadedImage(raw)
		}
		return nil
	}

	type plain ProfileImage
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("profile image: %w", err)
	}
	switch obj.Kind {
	case ImageIcon, ImageUploaded, "":
	default:
		return fmt.Errorf("profile image: unknown kind %q", obj.Kind)
	}
	*p = ProfileImage(obj)
	return nil
}
