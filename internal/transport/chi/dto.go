package chi

import (
	domimage "github.com/kailas-cloud/pfin/internal/domain/image"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	galleryuc "github.com/kailas-cloud/pfin/internal/usecase/gallery"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeForbidden        ErrorCode = "forbidden"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ImageListResponse wraps image search results.
type ImageListResponse struct {
	Items []ImageItem `json:"items"`
	Total int         `json:"total"`
	Limit int         `json:"limit"` // cap applied by the server, 0 when uncapped
}

// ImageItem is an image as served to the browser.
type ImageItem struct {
	domimage.Image
	FileName    string `json:"file_name"`
	Orientation string `json:"orientation"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Group string `json:"group"`
}

// UserListResponse wraps a user directory page.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func imageToItem(img domimage.Image) ImageItem {
	return ImageItem{Image: img, FileName: img.FileName(), Orientation: string(img.Orientation())}
}

func pageToResponse(p galleryuc.Page) ImageListResponse {
	items := make([]ImageItem, len(p.Images))
	for i, img := range p.Images {
		items[i] = imageToItem(img)
	}
	return ImageListResponse{Items: items, Total: len(items), Limit: p.Limit}
}

func userToResponse(u domuser.User) UserResponse {
	return UserResponse{ID: u.MongoID, Name: u.Name, Email: u.Email, Group: string(u.Role)}
}
