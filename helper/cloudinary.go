package helper

import (
	"net/url"
	"strconv"
	"time"

	"cinema_reservation/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
)

type UploadSignature struct {
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder,omitempty"`
	Signature string `json:"signature"`
}

func InitCloudinary(s *config.Settings) (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(s.CloudinaryCloudName, s.CloudinaryAPIKey, s.CloudinaryAPISecret)
}

// SignUpload signs a direct browser upload into folder.
func SignUpload(cld *cloudinary.Cloudinary, folder string, now time.Time) (UploadSignature, error) {
	ts := now.Unix()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(ts, 10))
	if folder != "" {
		params.Set("folder", folder)
	}
	signature, err := api.SignParameters(params, cld.Config.Cloud.APISecret)
	if err != nil {
		return UploadSignature{}, err
	}
	return UploadSignature{
		CloudName: cld.Config.Cloud.CloudName,
		APIKey:    cld.Config.Cloud.APIKey,
		Timestamp: ts,
		Folder:    folder,
		Signature: signature,
	}, nil
}
