package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxImageSize is the per-file upload limit.
const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// saveUploadedImage validates and stores one uploaded image under dir,
// returning the generated filename.
func saveUploadedImage(c *fiber.Ctx, file *multipart.FileHeader, dir string) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("file %s exceeds the 5MB limit", file.Filename)
	}
	if !allowedImageTypes[file.Header.Get("Content-Type")] {
		return "", fmt.Errorf("invalid file type for %s: only JPEG, PNG and WebP are allowed", file.Filename)
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", file.Filename, err)
	}
	return name, nil
}
