package services

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultVehicleDescription = "Customer Vehicle"
	defaultImageMimeType      = "image/png"
	defaultPhotoMimeType      = "image/jpeg"
	maxReferenceImageBytes    = 10 << 20
)

var captionTemplates = []string{
	"Our newest action figure just rolled out of {business}! Congrats on winning {prize}!",
	"Collector's edition alert: this customer drove away from {business} with {prize}.",
	"Built tough, serviced right. Another happy driver at {business} scored {prize}!",
	"Limited run, one of one. Thanks for checking in at {business} and enjoy your {prize}!",
	"Fresh out of the box at {business}: a legendary ride and {prize} to go with it.",
}

// BrandingLookup resolves the name and tagline used in prompts and captions.
type BrandingLookup interface {
	GetBranding(ctx context.Context, tenantID uuid.UUID) models.Branding
}

// ActionFigureService turns a prize-winning submission into shareable content.
type ActionFigureService struct {
	db                *gorm.DB
	validator         *infrastructures.Validator
	submissionService *SubmissionService
	contentService    *ContentService
	imageGenerator    ImageGenerator
	branding          BrandingLookup
	random            pkg.RandomSource
	aspectRatio       string
	timeout           time.Duration
}

func NewActionFigureService(db *gorm.DB, validator *infrastructures.Validator, submissionService *SubmissionService, contentService *ContentService, imageGenerator ImageGenerator, branding BrandingLookup, random pkg.RandomSource, cfg *infrastructures.AppConfig) *ActionFigureService {
	return &ActionFigureService{
		db:                db,
		validator:         validator,
		submissionService: submissionService,
		contentService:    contentService,
		imageGenerator:    imageGenerator,
		branding:          branding,
		random:            random,
		aspectRatio:       cfg.Image.AspectRatio,
		timeout:           cfg.Image.Timeout,
	}
}

func (s *ActionFigureService) Generate(ctx context.Context, principal *models.Principal, req *models.ActionFigureRequest) (*models.ActionFigureResponse, error) {
	if req == nil {
		return nil, errors.NewBadRequestError("Invalid request body")
	}

	// A submission without a prize is rejected before the photo is looked at.
	submission, err := s.submissionService.GetSubmission(ctx, principal.TenantID, req.SubmissionID)
	if err != nil {
		return nil, err
	}
	if submission.PrizeWon == nil {
		return nil, errors.NewBadRequestError("No prize won - spin first")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	photo, err := DecodeImageInput(req.Photo, req.PhotoMimeType)
	if err != nil {
		return nil, errors.NewValidationError("Invalid photo: " + err.Error())
	}
	options := models.ImageGenerationOptions{AspectRatio: s.aspectRatio}
	for i, logo := range req.Logos {
		ref, err := DecodeImageInput(logo, "")
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("Invalid logo %d: %s", i+1, err.Error()))
		}
		options.ExtraReferences = append(options.ExtraReferences, ref)
	}

	branding := s.branding.GetBranding(ctx, principal.TenantID)
	prompt := BuildActionFigurePrompt(submission, branding)

	log := logrus.WithFields(logrus.Fields{
		"tenant_id":     principal.TenantID,
		"submission_id": submission.ID,
	})

	image, err := s.generateImage(ctx, prompt, photo, options)
	if err != nil {
		log.WithError(err).Warn("action figure generation failed")
		return nil, err
	}

	imageURL, objectKey, err := s.contentService.UploadImage(ctx, principal.TenantID, image)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to store generated image")
	}

	caption := BuildCaption(s.random, branding.BusinessName, *submission.PrizeWon)
	content := &models.Content{
		TenantID:     principal.TenantID,
		UserID:       principal.UserID,
		SubmissionID: &submission.ID,
		Type:         models.ContentTypeActionFigure,
		Title:        fmt.Sprintf("%s Action Figure", submission.CustomerName),
		Caption:      caption,
		ImageURL:     imageURL,
		MimeType:     image.MimeType,
		Prompt:       prompt,
	}
	if objectKey != "" {
		content.ObjectKey = &objectKey
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.contentService.Create(tx, content); err != nil {
			return err
		}
		return s.submissionService.LinkContent(tx, principal.TenantID, submission.ID, content.ID)
	})
	if err != nil {
		return nil, asAppError(err, "Failed to save generated content")
	}

	log.WithField("content_id", content.ID).Info("action figure generated")

	return &models.ActionFigureResponse{
		ContentID:      content.ID,
		ImageURL:       content.ImageURL,
		Caption:        caption,
		ValidationCode: submission.ValidationCode,
		PrizeLabel:     *submission.PrizeWon,
	}, nil
}

func (s *ActionFigureService) generateImage(ctx context.Context, prompt string, photo models.ImageRef, options models.ImageGenerationOptions) (models.ImageRef, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.imageGenerator.GenerateImageWithReference(ctx, prompt, photo, options)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.ImageRef{}, errors.NewUpstreamError("Image generation timed out")
		}
		return models.ImageRef{}, errors.NewUpstreamError("Image generation failed: " + err.Error())
	}
	if result == nil || !result.Success {
		message := "Image generation failed"
		if result != nil && result.Error != "" {
			message = result.Error
		}
		return models.ImageRef{}, errors.NewUpstreamError(message)
	}
	if len(result.ImageData) == 0 {
		return models.ImageRef{}, errors.NewUpstreamError("Image generation returned no image")
	}

	mimeType := result.MimeType
	if mimeType == "" {
		mimeType = defaultImageMimeType
	}
	return models.ImageRef{MimeType: mimeType, Data: result.ImageData}, nil
}

// BuildActionFigurePrompt is a pure function of the submission and branding.
func BuildActionFigurePrompt(submission *models.CheckInSubmission, branding models.Branding) string {
	prize := ""
	if submission.PrizeWon != nil {
		prize = *submission.PrizeWon
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a collectible action figure of the person in the reference photo, named %q, ", submission.CustomerName)
	b.WriteString("sealed in retail blister packaging with a cardboard backing. ")
	fmt.Fprintf(&b, "Include a miniature of their vehicle: %s. ", VehicleDescription(submission))
	fmt.Fprintf(&b, "The package header reads %q with the tagline %q. ", branding.BusinessName, branding.Tagline)
	fmt.Fprintf(&b, "A starburst sticker on the front says \"Prize: %s\" ", prize)
	fmt.Fprintf(&b, "and the bottom corner shows the code %s. ", submission.ValidationCode)
	b.WriteString("If logos are provided, place them on the packaging. Photorealistic, studio lighting, vibrant colors.")
	return b.String()
}

// VehicleDescription needs year, make and model; anything less is generic.
func VehicleDescription(submission *models.CheckInSubmission) string {
	parts := []*string{submission.VehicleYear, submission.VehicleMake, submission.VehicleModel}
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nil || strings.TrimSpace(*part) == "" {
			return defaultVehicleDescription
		}
		words = append(words, strings.TrimSpace(*part))
	}
	return strings.Join(words, " ")
}

func BuildCaption(random pkg.RandomSource, businessName, prizeLabel string) string {
	template := pkg.RandomElement(random, captionTemplates)
	return strings.NewReplacer("{business}", businessName, "{prize}", prizeLabel).Replace(template)
}

// DecodeImageInput accepts "data:<mime>;base64,<payload>" or bare base64.
func DecodeImageInput(input, fallbackMimeType string) (models.ImageRef, error) {
	input = strings.TrimSpace(input)
	mimeType := strings.TrimSpace(fallbackMimeType)
	payload := input

	if strings.HasPrefix(input, "data:") {
		header, data, ok := strings.Cut(strings.TrimPrefix(input, "data:"), ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return models.ImageRef{}, fmt.Errorf("malformed data URL")
		}
		mimeType = strings.TrimSuffix(header, ";base64")
		payload = data
	}
	if mimeType == "" {
		mimeType = defaultPhotoMimeType
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return models.ImageRef{}, fmt.Errorf("unsupported type %s", mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("not valid base64")
	}
	if len(data) == 0 {
		return models.ImageRef{}, fmt.Errorf("empty image")
	}
	if len(data) > maxReferenceImageBytes {
		return models.ImageRef{}, fmt.Errorf("image exceeds %d bytes", maxReferenceImageBytes)
	}

	return models.ImageRef{MimeType: mimeType, Data: data}, nil
}
