package controllers

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/models"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxAvatarBytes = 5 << 20

type UserController struct {
	users   *services.UserService
	objects utils.ObjectStore
	log     *zap.Logger
}

// NewUserController wires the profile handlers. objects may be nil when no
// bucket is configured; avatar upload then answers 503.
func NewUserController(svc *services.Services, objects utils.ObjectStore, log *zap.Logger) *UserController {
	return &UserController{users: svc.Users, objects: objects, log: log}
}

type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=100"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=72"`
	Avatar      *string `json:"avatar" validate:"omitempty,url,max=512"`
	SocialLink  *string `json:"socialLink" validate:"omitempty,url,max=512"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// PublicUser is what other users may see of an account.
type PublicUser struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	Role        string              `json:"role"`
	Avatar      *string             `json:"avatar,omitempty"`
	SocialLink  *string             `json:"socialLink,omitempty"`
	Description *string             `json:"description,omitempty"`
	SocialLinks []models.SocialLink `json:"socialLinks"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type MeResponse struct {
	*models.User
	SocialLinks []models.SocialLink `json:"socialLinks"`
}

// GET /users/me
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, err := c.users.Profile(r.Context(), uid)
	if err != nil {
		RespondError(w, r, c.log, "users.Me", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: MeResponse{User: p.User, SocialLinks: p.SocialLinks}})
}

// PUT /users/me
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	u, err := c.users.UpdateProfile(r.Context(), uid, services.ProfileUpdate{
		Username:    req.Username,
		Password:    req.Password,
		Avatar:      req.Avatar,
		SocialLink:  req.SocialLink,
		Description: req.Description,
	})
	if err != nil {
		RespondError(w, r, c.log, "users.UpdateMe", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Profile updated", Data: u})
}

// GET /users/{id}
func (c *UserController) Public(w http.ResponseWriter, r *http.Request) {
	p, err := c.users.Profile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		RespondError(w, r, c.log, "users.Public", err)
		return
	}
	u := p.User
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: PublicUser{
			ID:          u.ID,
			Username:    u.Username,
			Role:        u.Role,
			Avatar:      u.Avatar,
			SocialLink:  u.SocialLink,
			Description: u.Description,
			SocialLinks: p.SocialLinks,
			CreatedAt:   u.CreatedAt,
		},
	})
}

// PUT /users/me/avatar (multipart field "avatar")
func (c *UserController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if c.objects == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "Avatar storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+64<<10)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()
	if header.Size > maxAvatarBytes {
		utils.WriteError(w, http.StatusBadRequest, "Image must be at most 5MB")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Could not read image")
		return
	}
	body, contentType, ext, err := sanitizeImage(raw)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := "avatars/" + uid + "/" + uuid.NewString() + ext
	if err := c.objects.Put(r.Context(), key, bytes.NewReader(body), contentType); err != nil {
		RespondError(w, r, c.log, "users.UploadAvatar", err)
		return
	}
	url, err := c.objects.URL(r.Context(), key)
	if err != nil {
		RespondError(w, r, c.log, "users.UploadAvatar", err)
		return
	}
	u, err := c.users.SetAvatar(r.Context(), uid, url)
	if err != nil {
		RespondError(w, r, c.log, "users.UploadAvatar", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Avatar updated", Data: u})
}

var errImageFormat = errors.New("Image must be JPG, PNG or WEBP")

// sanitizeImage sniffs the content type. JPEG and PNG are decoded and
// re-encoded to drop anything that is not pixels; WEBP is passed through.
func sanitizeImage(raw []byte) ([]byte, string, string, error) {
	switch http.DetectContentType(raw) {
	case "image/webp":
		return raw, "image/webp", ".webp", nil
	case "image/jpeg":
		img, err := jpeg.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, "", "", errImageFormat
		}
		var out bytes.Buffer
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", "", err
		}
		return out.Bytes(), "image/jpeg", ".jpg", nil
	case "image/png":
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, "", "", errImageFormat
		}
		var out bytes.Buffer
		if err := png.Encode(&out, img); err != nil {
			return nil, "", "", err
		}
		return out.Bytes(), "image/png", ".png", nil
	default:
		return nil, "", "", errImageFormat
	}
}
