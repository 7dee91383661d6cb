package helper

import (
	"context"
	"path"
	"strings"

	"cinema_reservation/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Media is the cloudinary account holding uploaded posters. Nil disables
// remote cleanup.
var Media *cloudinary.Cloudinary

// ExtractPublicID returns the public id of a cloudinary delivery URL, or ""
// when url is not one.
//
//	https://res.cloudinary.com/<cloud>/image/upload/v1712/<folder>/<id>.jpg -> <folder>/<id>
func ExtractPublicID(url string) string {
	if !strings.Contains(url, "res.cloudinary.com/") {
		return ""
	}
	_, rest, found := strings.Cut(url, "/upload/")
	if !found || rest == "" {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersion(parts[0]) {
		parts = parts[1:]
	}
	publicID := strings.Join(parts, "/")
	return strings.TrimSuffix(publicID, path.Ext(publicID))
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DestroyImage removes a replaced or orphaned image in the background.
func DestroyImage(url string) {
	publicID := ExtractPublicID(url)
	if Media == nil || publicID == "" {
		return
	}
	go func(cld *cloudinary.Cloudinary) {
		invalidate := true
		_, err := cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: "image",
			Invalidate:   &invalidate,
		})
		if err != nil {
			logger.Log.Warn("destroy cloudinary image", zap.String("publicId", publicID), zap.Error(err))
		}
	}(Media)
}
