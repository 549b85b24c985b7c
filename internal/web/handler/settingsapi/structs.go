package settingsapi

import (
	"time"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/models"
)

type (
	// SettingResponse is the wire representation of a setting row.
	SettingResponse struct {
		ID          uint64    `json:"id"`
		Name        string    `json:"name"`
		Value       string    `json:"value"`
		CreatedDate time.Time `json:"created_date"`
		UpdatedDate time.Time `json:"updated_date"`
		IsProtected bool      `json:"is_protected"`
		IsDynamic   bool      `json:"is_dynamic"`
	}

	// SettingUpdate is the payload for value updates. The flag fields
	// are optional overrides applied after the value write.
	SettingUpdate struct {
		Value       *string `form:"value"        json:"value"`
		IsProtected *bool   `form:"is_protected" json:"is_protected"`
		IsDynamic   *bool   `form:"is_dynamic"   json:"is_dynamic"`
	}

	// ThumbnailSettings is the composite payload for the thumbnail
	// convenience endpoint. Width and height are persisted together as
	// the thumbnail_size setting.
	ThumbnailSettings struct {
		ThumbnailDirectory string `form:"thumbnail_directory" json:"thumbnail_directory" query:"thumbnail_directory" validate:"required"`
		ThumbnailWidth     int    `form:"thumbnail_width"     json:"thumbnail_width"     query:"thumbnail_width"     validate:"required,min=1,max=4096"`
		ThumbnailHeight    int    `form:"thumbnail_height"    json:"thumbnail_height"    query:"thumbnail_height"    validate:"required,min=1,max=4096"`
	}
)

// responseFromModel maps a setting row to its wire representation.
func responseFromModel(s *models.Setting) SettingResponse {
	return SettingResponse{
		ID:          s.ID,
		Name:        s.Name,
		Value:       s.Value,
		CreatedDate: s.CreatedDate,
		UpdatedDate: s.UpdatedDate,
		IsProtected: s.Protected(),
		IsDynamic:   s.Dynamic(),
	}
}
