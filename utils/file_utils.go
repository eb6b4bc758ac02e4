// utils/file_utils.go
package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum avatar file size (5MB)
	maxAvatarSize = 5 * 1024 * 1024
	// Avatars are downscaled to fit this bounding box before re-encoding
	avatarMaxDim = 256
)

// Allowed avatar extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// InitializeStorage creates the directories for uploaded files
func InitializeStorage() error {
	for _, dir := range []string{uploadBaseDir, filepath.Join(uploadBaseDir, "avatars")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %v", dir, err)
		}
	}
	return nil
}

// SaveAvatar validates, downscales and re-encodes an uploaded avatar image,
// returning the URL path it is served under.
func SaveAvatar(file *multipart.FileHeader) (string, error) {
	if file.Size > maxAvatarSize {
		return "", fmt.Errorf("file too large: maximum size is %d bytes", maxAvatarSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Fit keeps aspect ratio and never upscales
	img = imaging.Fit(img, avatarMaxDim, avatarMaxDim, imaging.Lanczos)

	filename := uuid.New().String() + ".jpg"
	dst := filepath.Join(uploadBaseDir, "avatars", filename)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	return baseURL + "/avatars/" + filename, nil
}

// RemoveUploadedFile deletes a previously stored upload given its URL path
func RemoveUploadedFile(urlPath string) error {
	if !strings.HasPrefix(urlPath, baseURL+"/") {
		return fmt.Errorf("not an uploaded file path: %s", urlPath)
	}
	rel := strings.TrimPrefix(urlPath, baseURL+"/")
	// Guard against path traversal in stored values
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", urlPath)
	}
	return os.Remove(filepath.Join(uploadBaseDir, rel))
}
