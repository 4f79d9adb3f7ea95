package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/events"
	"cardshare_backend/internal/qrcodes"
	"cardshare_backend/internal/vcards/repository"
	"cardshare_backend/internal/vcards/transport"
	"cardshare_backend/internal/vcards/vcf"
	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/phone"
	"cardshare_backend/platform/sanitize"
)

// QR code geometry of a vCard link.
const (
	QRCodeSize = 512
	QRLogoBox  = qrcodes.DefaultLogoBox
)

const (
	logoFolder       = "vcards/"
	defaultPhoneType = vcf.TagOffice
	maxImportBytes   = 1 << 20
)

// QRGenerator renders QR code data URLs.
type QRGenerator interface {
	Generate(ctx context.Context, req qrcodes.Request) (string, error)
}

// Options configures a Service.
type Options struct {
	// Storage may be nil when object storage is not configured.
	Storage storage.StorageService
	Bucket  string
	BaseURL string
	// StrictPhones rejects saves with invalid phone numbers instead of
	// returning warnings.
	StrictPhones bool
	Countries    *phone.Table
}

// Service provides business logic for vCards.
type Service struct {
	repo      repository.Repository
	qr        QRGenerator
	storage   storage.StorageService
	bucket    string
	baseURL   string
	strict    bool
	countries *phone.Table
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new vCard service.
func New(repo repository.Repository, qr QRGenerator, opts Options, bus events.Bus, log *logger.Logger) *Service {
	countries := opts.Countries
	if countries == nil {
		countries = phone.Default()
	}
	return &Service{
		repo:      repo,
		qr:        qr,
		storage:   opts.Storage,
		bucket:    opts.Bucket,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		strict:    opts.StrictPhones,
		countries: countries,
		bus:       bus,
		log:       log,
	}
}

// List returns every vCard newest first.
func (s *Service) List(ctx context.Context) ([]transport.VCardResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.VCardResponse, 0, len(items))
	for _, v := range items {
		out = append(out, s.toResponse(v))
	}
	return out, nil
}

// Get returns one vCard.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.VCardResponse, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.VCardResponse{}, err
	}
	return s.toResponse(v), nil
}

// Create stores a new vCard.
func (s *Service) Create(ctx context.Context, req transport.VCardRequest) (transport.SaveVCardResponse, error) {
	params, warnings, err := s.saveParams(req)
	if err != nil {
		return transport.SaveVCardResponse{}, err
	}
	v, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.SaveVCardResponse{}, err
	}

	s.publishSaved(ctx, v)
	s.log.Info("vcard created", "id", v.ID, "phones", len(v.PhoneNumbers), "warnings", len(warnings))
	return transport.SaveVCardResponse{VCardResponse: s.toResponse(v), Warnings: warnings}, nil
}

// Update replaces a vCard's fields and its whole phone list.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.VCardRequest) (transport.SaveVCardResponse, error) {
	params, warnings, err := s.saveParams(req)
	if err != nil {
		return transport.SaveVCardResponse{}, err
	}
	v, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.SaveVCardResponse{}, err
	}

	s.publishSaved(ctx, v)
	s.log.Info("vcard updated", "id", v.ID, "phones", len(v.PhoneNumbers), "warnings", len(warnings))
	return transport.SaveVCardResponse{VCardResponse: s.toResponse(v), Warnings: warnings}, nil
}

// Delete removes a vCard. Its uploaded logo is removed through VCardDeleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	logoKey := ""
	if v.LogoFileKey != nil {
		logoKey = *v.LogoFileKey
	}
	s.bus.Publish(ctx, events.VCardDeleted{
		BaseEvent:   events.NewBaseEvent(),
		VCardID:     id,
		LogoFileKey: logoKey,
	})

	s.log.Info("vcard deleted", "id", id)
	return nil
}

// Import creates a vCard from an uploaded .vcf document.
func (s *Service) Import(ctx context.Context, r io.Reader) (transport.SaveVCardResponse, error) {
	c, err := vcf.Parse(io.LimitReader(r, maxImportBytes))
	if err != nil {
		if errors.Is(err, vcf.ErrNoCard) {
			return transport.SaveVCardResponse{}, apperr.Validation("no vcard found in upload")
		}
		return transport.SaveVCardResponse{}, apperr.Validation("invalid vcard").WithDetails(err.Error())
	}
	return s.Create(ctx, s.fromContact(c))
}

// Export renders a vCard as a .vcf document and returns its file name.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (string, string, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	return fileName(v), vcf.Serialize(toContact(v)), nil
}

// GenerateQRCode renders the vCard's public link with its logo and stores it.
func (s *Service) GenerateQRCode(ctx context.Context, id uuid.UUID) (transport.QRCodeResponse, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.QRCodeResponse{}, err
	}

	dataURL, err := s.renderQRCode(ctx, v)
	if err != nil {
		return transport.QRCodeResponse{}, err
	}
	if err := s.repo.SetQRCode(ctx, id, dataURL); err != nil {
		return transport.QRCodeResponse{}, err
	}

	s.log.Info("vcard qr code generated", "id", id)
	return transport.QRCodeResponse{
		QRCodeURL:   dataURL,
		VCardURL:    s.VCardURL(id),
		VCardString: vcf.Serialize(toContact(v)),
	}, nil
}

// RefreshQRCode re-renders a stored QR code so it picks up logo changes.
// vCards without a QR code are left alone.
func (s *Service) RefreshQRCode(ctx context.Context, id uuid.UUID) error {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if v.QRCodeURL == nil {
		return nil
	}

	dataURL, err := s.renderQRCode(ctx, v)
	if err != nil {
		return err
	}
	if dataURL == *v.QRCodeURL {
		return nil
	}
	if err := s.repo.SetQRCode(ctx, id, dataURL); err != nil {
		return err
	}

	s.log.Info("vcard qr code refreshed", "id", id)
	return nil
}

func (s *Service) renderQRCode(ctx context.Context, v repository.VCard) (string, error) {
	var logo qrcodes.LogoSource
	if v.LogoFileKey != nil {
		logo.FileKey = *v.LogoFileKey
	}
	if v.LogoURL != nil {
		logo.URL = *v.LogoURL
	}
	return s.qr.Generate(ctx, qrcodes.Request{
		Content: s.VCardURL(v.ID),
		Size:    QRCodeSize,
		Logo:    logo,
		LogoBox: QRLogoBox,
	})
}

// PresignLogo returns an upload URL for a vCard logo.
func (s *Service) PresignLogo(ctx context.Context, id uuid.UUID, req transport.PresignLogoRequest) (transport.PresignLogoResponse, error) {
	if s.storage == nil {
		return transport.PresignLogoResponse{}, storage.NotConfigured()
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return transport.PresignLogoResponse{}, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, storage.UploadRequest{
		Bucket:      s.bucket,
		Folder:      logoFolder + id.String(),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Kind:        storage.KindLogo,
	})
	if err != nil {
		return transport.PresignLogoResponse{}, err
	}
	return transport.PresignLogoResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// SetLogo attaches an uploaded logo. The previous upload is removed.
func (s *Service) SetLogo(ctx context.Context, id uuid.UUID, req transport.SetLogoRequest) (transport.VCardResponse, error) {
	if s.storage == nil {
		return transport.VCardResponse{}, storage.NotConfigured()
	}
	key := strings.TrimSpace(req.FileKey)
	if !strings.HasPrefix(key, logoFolder+id.String()+"/") {
		return transport.VCardResponse{}, apperr.Validation("file key does not belong to this vcard")
	}
	return s.replaceLogo(ctx, id, &key)
}

// RemoveLogo detaches and deletes the uploaded logo.
func (s *Service) RemoveLogo(ctx context.Context, id uuid.UUID) (transport.VCardResponse, error) {
	return s.replaceLogo(ctx, id, nil)
}

func (s *Service) replaceLogo(ctx context.Context, id uuid.UUID, key *string) (transport.VCardResponse, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.VCardResponse{}, err
	}
	if err := s.repo.SetLogoFileKey(ctx, id, key); err != nil {
		return transport.VCardResponse{}, err
	}
	if before.LogoFileKey != nil && (key == nil || *key != *before.LogoFileKey) {
		s.RemoveLogoObject(ctx, *before.LogoFileKey)
	}

	after := before
	after.LogoFileKey = key
	s.publishSaved(ctx, after)

	s.log.Info("vcard logo updated", "id", id, "removed", key == nil)
	return s.toResponse(after), nil
}

// LogoDownloadURL returns a short-lived link to the uploaded logo.
func (s *Service) LogoDownloadURL(ctx context.Context, id uuid.UUID) (transport.LogoDownloadResponse, error) {
	if s.storage == nil {
		return transport.LogoDownloadResponse{}, storage.NotConfigured()
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.LogoDownloadResponse{}, err
	}
	if v.LogoFileKey == nil {
		return transport.LogoDownloadResponse{}, apperr.NotFound("vcard has no uploaded logo")
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, *v.LogoFileKey)
	if err != nil {
		return transport.LogoDownloadResponse{}, err
	}
	return transport.LogoDownloadResponse{DownloadURL: presigned.URL, ExpiresAt: presigned.ExpiresAt}, nil
}

// RemoveLogoObject deletes an uploaded logo, logging failures.
func (s *Service) RemoveLogoObject(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, s.bucket, key); err != nil {
		s.log.WithContext(ctx).Warn("failed to remove vcard logo", "key", key, "error", err)
	}
}

// VCardURL is the public page of a vCard.
func (s *Service) VCardURL(id uuid.UUID) string {
	return s.baseURL + "/vcard/" + id.String()
}

func (s *Service) publishSaved(ctx context.Context, v repository.VCard) {
	s.bus.Publish(ctx, events.VCardSaved{
		BaseEvent: events.NewBaseEvent(),
		VCardID:   v.ID,
		HasQRCode: v.QRCodeURL != nil,
	})
}

func (s *Service) saveParams(req transport.VCardRequest) (repository.SaveParams, []transport.PhoneWarning, error) {
	f := repository.Fields{
		FirstName:       sanitize.Line(req.FirstName),
		LastName:        sanitize.Line(req.LastName),
		ArabicFirstName: line(req.ArabicFirstName),
		ArabicLastName:  line(req.ArabicLastName),
		Title:           line(req.Title),
		Company:         line(req.Company),
		Email:           line(req.Email),
		Phone:           line(req.Phone),
		Website:         line(req.Website),
		Address:         text(req.Address),
		City:            line(req.City),
		State:           line(req.State),
		Country:         line(req.Country),
		ZipCode:         line(req.ZipCode),
		Notes:           text(req.Notes),
		LogoURL:         line(req.LogoURL),
		Instagram:       line(req.Instagram),
		Facebook:        line(req.Facebook),
		Twitter:         line(req.Twitter),
		LinkedIn:        line(req.LinkedIn),
		YouTube:         line(req.YouTube),
		TikTok:          line(req.TikTok),
		Snapchat:        line(req.Snapchat),
		Telegram:        line(req.Telegram),
		WhatsApp:        line(req.WhatsApp),
	}
	if f.FirstName == "" || f.LastName == "" {
		return repository.SaveParams{}, nil, apperr.Validation("firstName and lastName are required")
	}

	phones, warnings := s.canonicalPhones(req.PhoneNumbers)
	if s.strict && len(warnings) > 0 {
		return repository.SaveParams{}, nil, apperr.Validation("invalid phone numbers").WithDetails(warnings)
	}
	return repository.SaveParams{Fields: f, PhoneNumbers: phones}, warnings, nil
}

// canonicalPhones stores numbers in "+digits" form when the entry names a
// known country and cleaned otherwise. Entries failing validation are kept
// and reported as warnings.
func (s *Service) canonicalPhones(entries []transport.PhoneNumberRequest) ([]repository.PhoneParams, []transport.PhoneWarning) {
	phones := make([]repository.PhoneParams, 0, len(entries))
	var warnings []transport.PhoneWarning
	for i, e := range entries {
		tag := strings.TrimSpace(e.Type)
		if tag == "" {
			tag = defaultPhoneType
		}

		var country *string
		callingCode := ""
		number := phone.Clean(e.Number)
		if name := strings.TrimSpace(e.Country); name != "" {
			country = &name
			if c, ok := s.countries.Lookup(name); ok {
				callingCode = c.CallingCode
				number = phone.FullInternationalNumber(e.Number, c.CallingCode)
			}
		}

		if result := phone.Validate(e.Number, callingCode); !result.IsValid {
			warnings = append(warnings, transport.PhoneWarning{Index: i, Number: e.Number, Error: result.Error})
		}
		phones = append(phones, repository.PhoneParams{Number: number, Country: country, Type: tag})
	}
	return phones, warnings
}

func fileName(v repository.VCard) string {
	name := strings.TrimSpace(v.FirstName + "_" + v.LastName)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || b.String() == "_" {
		return fmt.Sprintf("%s.vcf", v.ID)
	}
	return b.String() + ".vcf"
}

func line(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Line(*s)
	if v == "" {
		return nil
	}
	return &v
}

func text(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Text(*s)
	if v == "" {
		return nil
	}
	return &v
}
