package suites

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	"petlodge/internal/infra/storage/s3"
)

const uploadSuitePhotoKey = "facility.suites.photos.upload"

type UploadSuitePhotoCommand struct {
	FacilityID  string
	SuiteID     string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadSuitePhotoCommand) Key() string { return uploadSuitePhotoKey }

type UploadSuitePhotoHandler struct {
	Logger   *slog.Logger
	Uploader s3.Uploader
	Now      func() time.Time
}

func (h *UploadSuitePhotoHandler) Handle(ctx context.Context, cmd UploadSuitePhotoCommand) (*dto.SuitePhotoUploadResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	suite, unit, err := ownedSuite(ctx, cmd.FacilityID, cmd.SuiteID)
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := suite.AddPhoto(publicURL, now); err != nil {
		return nil, err
	}
	if err := unit.Suites().Save(ctx, suite); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("suite photo added", "suite_id", suite.ID, "facility_id", cmd.FacilityID, "object_key", cmd.ObjectKey)
	}

	result := dto.SuitePhotoUploadResult{
		SuiteID:      cmd.SuiteID,
		Photos:       append([]string(nil), suite.Photos...),
		ThumbnailURL: suite.ThumbnailURL,
	}
	return &result, nil
}

var _ commands.Handler[UploadSuitePhotoCommand, *dto.SuitePhotoUploadResult] = (*UploadSuitePhotoHandler)(nil)
