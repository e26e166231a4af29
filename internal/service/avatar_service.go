package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/validation"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultAvatarUploadDir is where avatar files land when no directory is configured.
	DefaultAvatarUploadDir = "./uploads/avatars"
	// DefaultAvatarMaxSizeMB caps the accepted upload size.
	DefaultAvatarMaxSizeMB = 5
	// AvatarMaxEdge is the longest edge after downscaling.
	AvatarMaxEdge = 512
	// AvatarPublicPath is the URL prefix avatars are served under.
	AvatarPublicPath = "/media/avatars"

	avatarJPEGQuality = 85
)

// AvatarService stores and removes user avatar images on the local
// filesystem, keyed by user id.
type AvatarService struct {
	userRepo  repository.UserRepository
	uploadDir string
	maxBytes  int64
}

// NewAvatarService returns a new AvatarService writing into uploadDir.
func NewAvatarService(userRepo repository.UserRepository, uploadDir string, maxSizeMB int) *AvatarService {
	if uploadDir == "" {
		uploadDir = DefaultAvatarUploadDir
	}
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultAvatarMaxSizeMB
	}
	return &AvatarService{
		userRepo:  userRepo,
		uploadDir: uploadDir,
		maxBytes:  int64(maxSizeMB) * 1024 * 1024,
	}
}

// UploadDir returns the directory avatars are written to.
func (s *AvatarService) UploadDir() string {
	return s.uploadDir
}

// Upload validates the payload against the JPEG/PNG/GIF allow-list, downscales
// still images to AvatarMaxEdge, writes the file keyed by user id and updates
// the user's avatar reference. Any previous avatar file is removed.
func (s *AvatarService) Upload(ctx context.Context, userID uint, content []byte) (*models.User, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	// Sniff the real content type; the client-provided one is not trusted.
	detected := http.DetectContentType(content)
	ext, err := validation.AvatarExtension(detected)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// GIFs are stored as uploaded so animations survive; JPEG/PNG get
	// decoded and downscaled.
	stored := content
	if detected != "image/gif" {
		stored, err = downscaleAvatar(content, detected)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.removeAvatarFiles(userID)

	filename := fmt.Sprintf("%d%s", userID, ext)
	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), stored, 0o644); err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Avatar = AvatarPublicPath + "/" + filename
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the stored avatar object and clears the user's reference.
func (s *AvatarService) Delete(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.removeAvatarFiles(userID)

	user.Avatar = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// removeAvatarFiles deletes every stored variant for the user, whatever
// extension an earlier upload used.
func (s *AvatarService) removeAvatarFiles(userID uint) {
	for _, ext := range []string{".jpg", ".png", ".gif"} {
		_ = os.Remove(filepath.Join(s.uploadDir, fmt.Sprintf("%d%s", userID, ext)))
	}
}

func downscaleAvatar(content []byte, mimeType string) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	b := decoded.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > AvatarMaxEdge || h > AvatarMaxEdge {
		scale := float64(AvatarMaxEdge) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), decoded, b, xdraw.Over, nil)
		decoded = dst
	}

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, decoded)
	default:
		err = jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: avatarJPEGQuality})
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return buf.Bytes(), nil
}
