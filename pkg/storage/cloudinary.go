package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"tesis-hub/backend/config"
)

// 资源类型（决定 Cloudinary 上传端点）
const (
	KindImage = "image"
	KindPDF   = "pdf"
)

var (
	ErrKindInvalid   = errors.New("不支持的文件类型")
	ErrNotConfigured = errors.New("文件托管服务未配置")
)

// Uploader 外部文件托管接口
// 上传成功返回可长期访问的 secure_url
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, kind, filename string) (string, error)
}

// CloudinaryUploader 基于 Cloudinary 无签名预设的 Uploader 实现
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	cfg    *config.StorageConfig
	logger *zap.Logger
}

// NewCloudinaryUploader 创建 Cloudinary 上传客户端
// cloud_name 未配置时返回 nil（上传接口降级为不可用）
func NewCloudinaryUploader(cfg *config.StorageConfig, logger *zap.Logger) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("初始化 Cloudinary 客户端失败: %w", err)
	}

	return &CloudinaryUploader{cld: cld, cfg: cfg, logger: logger}, nil
}

// Upload 按无签名预设上传文件，返回 secure_url
// kind 为 image 时走图片端点，pdf 走 raw 端点
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, kind, filename string) (string, error) {
	var resourceType string
	switch kind {
	case KindImage:
		resourceType = "image"
	case KindPDF:
		resourceType = "raw"
	default:
		return "", ErrKindInvalid
	}

	publicID := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		UploadPreset: u.cfg.UploadPreset,
		Folder:       u.cfg.Folder + "/" + kind,
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		u.logger.Error("上传文件失败",
			zap.String("kind", kind),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return "", err
	}

	return result.SecureURL, nil
}
