package application

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

// NewSurveyCommandService wires the submission workflow: validate, upload
// the photo when present, stamp the record in the fixed offset, append.
func NewSurveyCommandService(repo RecordRepository, uploader PhotoUploader, clock domain.RecordClock, logger *log.Logger) SurveyCommandService {
	return &surveyCommandService{
		repo:     repo,
		uploader: uploader,
		clock:    clock,
		logger:   logger,
	}
}

type surveyCommandService struct {
	repo     RecordRepository
	uploader PhotoUploader
	clock    domain.RecordClock
	logger   *log.Logger
}

func (s *surveyCommandService) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	record := domain.SurveyRecord{
		Name:        strings.TrimSpace(cmd.Name),
		Latitude:    cmd.Latitude,
		Longitude:   cmd.Longitude,
		Description: strings.TrimSpace(cmd.Description),
		Category:    domain.NewCategory(cmd.Category),
		Timestamp:   s.clock.Timestamp(),
		SubmittedBy: strings.TrimSpace(cmd.SubmittedBy),
	}

	if err := record.Validate(); err != nil {
		return SubmitResult{}, err
	}

	warning := ""
	if len(cmd.Photo) > 0 {
		url, err := s.uploader.Upload(ctx, cmd.Photo)
		if err != nil {
			// Photo failure never blocks the submission.
			if s.logger != nil {
				s.logger.Printf("photo upload failed, continuing without photo: %v", err)
			}
			warning = "Gagal upload foto, data tetap disimpan tanpa foto."
		} else {
			record.PhotoURL = domain.NormalizePhotoURL(url)
		}
	}

	if err := s.repo.Append(ctx, record); err != nil {
		return SubmitResult{}, fmt.Errorf("gagal menyimpan data: %w", err)
	}

	return SubmitResult{Record: record, Warning: warning}, nil
}
