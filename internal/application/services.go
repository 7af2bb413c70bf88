package application

import (
	"context"
	"errors"

	"github.com/dwisurvei/webgis-seismik/internal/domain"
)

// ErrRemoteUnavailable marks a remote table read or write that failed for
// network or auth reasons. Readers degrade to an empty snapshot; writers
// surface the error and keep the user's input intact.
var ErrRemoteUnavailable = errors.New("tabel remote tidak dapat diakses")

// ErrUploadFailed marks an image-host upload that did not produce a public
// URL. It is never fatal to a submission.
var ErrUploadFailed = errors.New("upload foto gagal")

// RecordRepository is the port to the remote worksheet.
// The backing store has no partial-append primitive: Append is a
// read-modify-write of the whole table, so concurrent submissions can
// lose updates. That limitation is accepted, not masked.
type RecordRepository interface {
	List(ctx context.Context) ([]domain.SurveyRecord, error)
	Append(ctx context.Context, record domain.SurveyRecord) error
}

// PhotoUploader is the port to the external image host.
type PhotoUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// SurveyQueryService provides the read-only snapshot used by the map view.
type SurveyQueryService interface {
	List(ctx context.Context) ([]domain.SurveyRecord, error)
}

// SurveyCommandService runs the submission workflow.
type SurveyCommandService interface {
	Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error)
}

// SubmitCommand carries one entry-form submission.
type SubmitCommand struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Description string
	Category    string
	Photo       []byte
	SubmittedBy string
}

// SubmitResult reports the persisted record plus any non-fatal warning
// (currently only photo-upload failure).
type SubmitResult struct {
	Record  domain.SurveyRecord
	Warning string
}

func NewSurveyQueryService(repo RecordRepository) SurveyQueryService {
	return &surveyQueryService{repo: repo}
}

type surveyQueryService struct {
	repo RecordRepository
}

func (s *surveyQueryService) List(ctx context.Context) ([]domain.SurveyRecord, error) {
	return s.repo.List(ctx)
}
