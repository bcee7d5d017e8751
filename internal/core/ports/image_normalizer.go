package ports

import "github.com/cursomc/commerce-api/internal/core/domain"

// ImageNormalizer converts an upload into the stored profile picture format.
type ImageNormalizer interface {
	Normalize(upload domain.UploadedImage) (*domain.NormalizedImage, error)
}
