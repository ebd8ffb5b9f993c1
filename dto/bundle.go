package dto

import "thuetro/models"

// BundleCreateRequest là payload tạo config bundle mới
type BundleCreateRequest struct {
	Name       string                  `json:"name"`
	Vocabulary models.BundleVocabulary `json:"vocabulary"`
}

// BundleResponse là DTO trả về cho config bundle
type BundleResponse struct {
	ID         uint                     `json:"id"`
	Name       string                   `json:"name"`
	Status     int                      `json:"status"`
	Vocabulary *models.BundleVocabulary `json:"vocabulary,omitempty"`
	CreatedAt  string                   `json:"createdAt"`
}

// NewBundleResponse chuyển model sang DTO
func NewBundleResponse(b *models.ConfigBundle) BundleResponse {
	resp := BundleResponse{
		ID:        b.ID,
		Name:      b.Name,
		Status:    b.Status,
		CreatedAt: b.CreatedAt.Format("02/01/2006 15:04:05"),
	}
	resp.Vocabulary = b.Vocabulary()
	return resp
}
