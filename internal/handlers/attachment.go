package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	appConfig "github.com/rvidyu/market-chitchat-39-sub000/internal/config"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/logger"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

// Attachment pipeline limits. Validation applies to the raw file;
// compression only kicks in above the lower threshold.
const (
	MaxAttachmentCount    = 5
	MaxAttachmentSize     = 5 << 20 // 5MB, pre-compression
	CompressThreshold     = 5 << 19 // 2.5MB
	MaxAttachmentPixels   = 1024    // long edge after downscale
	AttachmentJPEGQuality = 80
)

// -- Helpers -- //

func getS3Client() (*s3.Client, error) {
	cfg := appConfig.AppConfig
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

func publicBaseURL() string {
	cfg := appConfig.AppConfig
	if cfg.R2PublicURL != "" {
		return cfg.R2PublicURL
	}
	return fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
}

// ValidateAttachments checks count, media type and raw size before any
// network work. A single violation aborts the whole add.
func ValidateAttachments(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("no files provided")
	}
	if len(files) > MaxAttachmentCount {
		return fmt.Errorf("at most %d images per message", MaxAttachmentCount)
	}
	for _, f := range files {
		contentType := f.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return fmt.Errorf("%s is not an image", f.Filename)
		}
		if f.Size > MaxAttachmentSize {
			return fmt.Errorf("%s exceeds the %dMB limit", f.Filename, MaxAttachmentSize>>20)
		}
	}
	return nil
}

// CompressImage downscales an image to MaxAttachmentPixels on the long
// edge, preserving aspect ratio, and re-encodes as JPEG. Only called
// for files above CompressThreshold.
func CompressImage(data []byte) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxAttachmentPixels || bounds.Dy() > MaxAttachmentPixels {
		img = imaging.Fit(img, MaxAttachmentPixels, MaxAttachmentPixels, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(AttachmentJPEGQuality)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}

// attachmentKey builds the per-user, per-upload storage key.
func attachmentKey(userID, filename string) string {
	base := filepath.Base(filename)
	return fmt.Sprintf("%s/%s-%s", userID, utils.NewID(), base)
}

func uploadBytes(client *s3.Client, key, contentType string, data []byte) error {
	cfg := appConfig.AppConfig
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.R2BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// isNotFound distinguishes a missing object from transport or auth
// failures, which must surface as errors rather than "does not exist".
func isNotFound(err error) bool {
	var nf *types.NotFound
	return errors.As(err, &nf)
}

// AttachmentExists checks whether an object is present in blob storage.
func AttachmentExists(key string) (bool, error) {
	client, err := getS3Client()
	if err != nil {
		return false, err
	}
	_, err = client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(appConfig.AppConfig.R2BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// -- Handlers -- //

// UploadAttachments validates, conditionally compresses and uploads
// message images, returning durable URLs. Partial upload failure does
// not abort the batch: successes come back as urls, failures by name,
// and the client decides whether to proceed with the send.
func UploadAttachments(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["files"]
	}

	if err := ValidateAttachments(files); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := getS3Client()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to init storage client"})
		return
	}

	urls := make([]string, 0, len(files))
	failed := make([]string, 0)

	for _, f := range files {
		url, err := processAndUpload(client, userID, f)
		if err != nil {
			logger.Error().Err(err).Str("file", f.Filename).Msg("Attachment upload failed")
			failed = append(failed, f.Filename)
			continue
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusOK, gin.H{
		"urls":          urls,
		"failedUploads": failed,
	})
}

func processAndUpload(client *s3.Client, userID string, f *multipart.FileHeader) (string, error) {
	file, err := f.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	contentType := f.Header.Get("Content-Type")
	filename := f.Filename

	if int64(len(data)) > CompressThreshold {
		compressed, newType, err := CompressImage(data)
		if err != nil {
			// Undecodable but validated as image/*; upload the original.
			logger.Warn().Err(err).Str("file", f.Filename).Msg("Compression failed, uploading original")
		} else {
			data = compressed
			contentType = newType
			filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
		}
	}

	key := attachmentKey(userID, filename)
	if err := uploadBytes(client, key, contentType, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", publicBaseURL(), key), nil
}

// AttachmentStatus reports whether an uploaded object is still present
// in blob storage, for clients revalidating stale message image URLs.
func AttachmentStatus(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key"})
		return
	}

	exists, err := AttachmentExists(key)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Attachment existence check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "exists": exists})
}

// UploadAvatar uploads a profile image through the same pipeline and
// returns a cache-busted URL so stale avatars drop out immediately.
func UploadAvatar(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	f, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	if err := ValidateAttachments([]*multipart.FileHeader{f}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := getS3Client()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to init storage client"})
		return
	}

	url, err := processAndUpload(client, userID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	if err := UpdateUserImage(userID, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
