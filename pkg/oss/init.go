package oss

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"VidTube.com/config"
)

// InitMinio connects to the configured MinIO endpoint.
func InitMinio() (*MinioStore, error) {
	c := config.ConfigInfo.Minio
	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", c.Endpoint, c.AccessKey)

	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		hlog.Errorf("Failed to create MinIO client: %v", err)
		return nil, err
	}

	publicURL := c.PublicURL
	if publicURL == "" {
		scheme := "http://"
		if c.UseSSL {
			scheme = "https://"
		}
		publicURL = scheme + c.Endpoint
	}
	hlog.Info("Connect Minio Success")
	return NewMinioStore(client, publicURL), nil
}
