package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: name,
		Header:   h,
		Size:     size,
	}
}

func TestValidateAttachmentsAcceptsImages(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader("a.jpg", "image/jpeg", 1<<20),
		fileHeader("b.png", "image/png", 2<<20),
	}
	assert.NoError(t, ValidateAttachments(files))
}

func TestValidateAttachmentsRejectsTooMany(t *testing.T) {
	files := make([]*multipart.FileHeader, MaxAttachmentCount+1)
	for i := range files {
		files[i] = fileHeader("a.jpg", "image/jpeg", 1024)
	}
	err := ValidateAttachments(files)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most")
}

func TestValidateAttachmentsRejectsNonImage(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader("payload.pdf", "application/pdf", 1024),
	}
	err := ValidateAttachments(files)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")
}

func TestValidateAttachmentsRejectsOversize(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader("huge.jpg", "image/jpeg", MaxAttachmentSize+1),
	}
	err := ValidateAttachments(files)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestValidateAttachmentsRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateAttachments(nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCompressImageDownscalesLongEdge(t *testing.T) {
	data := pngBytes(t, 4096, 2048)

	out, contentType, err := CompressImage(data)
	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, MaxAttachmentPixels, bounds.Dx())
	// Aspect ratio preserved: 2:1 stays 2:1
	assert.Equal(t, MaxAttachmentPixels/2, bounds.Dy())
}

func TestCompressImageKeepsSmallDimensions(t *testing.T) {
	data := pngBytes(t, 640, 480)

	out, _, err := CompressImage(data)
	assert.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
	assert.Equal(t, 480, decoded.Bounds().Dy())
}

func TestCompressImageRejectsGarbage(t *testing.T) {
	_, _, err := CompressImage([]byte("not an image at all"))
	assert.Error(t, err)
}

func TestAttachmentKeyShape(t *testing.T) {
	key := attachmentKey("user123", "photo.jpg")

	assert.True(t, strings.HasPrefix(key, "user123/"))
	assert.True(t, strings.HasSuffix(key, "-photo.jpg"))

	// Unique per upload
	assert.NotEqual(t, key, attachmentKey("user123", "photo.jpg"))
}

func TestAttachmentKeyStripsDirectories(t *testing.T) {
	key := attachmentKey("user123", "../../etc/passwd")
	assert.False(t, strings.Contains(key, ".."))
	assert.True(t, strings.HasPrefix(key, "user123/"))
}

func TestIsNotFoundClassification(t *testing.T) {
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(fmt.Errorf("head object: %w", &types.NotFound{})))

	// Transport failures are errors, not a missing object
	assert.False(t, isNotFound(errors.New("connection refused")))
	assert.False(t, isNotFound(nil))
}

func TestAttachmentStatusRequiresKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/", nil)
	c.Set("userId", "u1stat")
	AttachmentStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
