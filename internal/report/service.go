package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"

	"ayursutra-backend/internal/consultation"
	"ayursutra-backend/pkg/logging"
)

const fontFamily = "ReportSans"

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

type Service struct {
	tgClient     TelegramClient
	clinicChatID int64
	fontPaths    []string
	location     *time.Location
	logger       *logging.Logger
}

// NewService builds the slip renderer. tg may be nil, which disables delivery.
func NewService(tg TelegramClient, clinicChatID int64, fontPaths []string, loc *time.Location, logger *logging.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		tgClient:     tg,
		clinicChatID: clinicChatID,
		fontPaths:    fontPaths,
		location:     loc,
		logger:       logger,
	}
}

// Render produces an A4 appointment slip for c.
func (s *Service) Render(c consultation.Consultation) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(&pdf); err != nil {
		return nil, err
	}

	if err := pdf.SetFont(fontFamily, "", 20); err != nil {
		return nil, err
	}
	pdf.SetX(40)
	pdf.SetY(40)
	if err := pdf.Cell(nil, "Appointment Recommendation"); err != nil {
		return nil, err
	}
	pdf.Br(30)

	if err := pdf.SetFont(fontFamily, "", 12); err != nil {
		return nil, err
	}
	rows := [][2]string{
		{"Reference", c.ID.String()},
		{"Issued", c.CreatedAt.In(s.location).Format("02.01.2006 15:04")},
		{"Patient", c.PatientName},
		{"Priority", c.Priority},
		{"Doctor", c.DoctorName},
		{"Speciality", c.Specialty},
		{"Therapy", c.Therapy},
		{"Available days", c.AvailableDays},
		{"Available time", c.AvailableTime},
		{"Suggested slot", c.Schedule},
	}
	for _, row := range rows {
		pdf.SetX(40)
		if err := pdf.Cell(nil, fmt.Sprintf("%s: %s", row[0], row[1])); err != nil {
			return nil, err
		}
		pdf.Br(18)
	}
	pdf.Br(12)

	if err := pdf.SetFont(fontFamily, "", 14); err != nil {
		return nil, err
	}
	pdf.SetX(40)
	if err := pdf.Cell(nil, "Reported problem:"); err != nil {
		return nil, err
	}
	pdf.Br(18)

	if err := pdf.SetFont(fontFamily, "", 11); err != nil {
		return nil, err
	}
	lines, err := pdf.SplitText(c.Problem, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to layout problem text: %w", err)
	}
	for _, l := range lines {
		pdf.SetX(40)
		if err := pdf.Cell(nil, l); err != nil {
			return nil, err
		}
		pdf.Br(14)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SendDoctorReport renders the slip for c and posts it to the clinic chat.
func (s *Service) SendDoctorReport(ctx context.Context, c consultation.Consultation) error {
	if s.tgClient == nil || s.clinicChatID == 0 {
		return consultation.ErrNotifyUnavailable
	}

	data, err := s.Render(c)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("New %s priority appointment: %s with %s (%s), %s",
		c.Priority, c.PatientName, c.DoctorName, c.Therapy, c.Schedule)
	if err := s.tgClient.SendMessage(ctx, s.clinicChatID, summary); err != nil {
		return err
	}

	fileName := fmt.Sprintf("appointment_%s.pdf", c.ID.String())
	if err := s.tgClient.SendDocument(ctx, s.clinicChatID, data, fileName); err != nil {
		s.logger.Error("failed to send telegram document", "error", err, "consultation_id", c.ID)
		return err
	}
	s.logger.Info("appointment slip sent", "consultation_id", c.ID, "chat_id", s.clinicChatID)
	return nil
}

// loadFont tries the configured TTF paths in order and falls back to the
// embedded Go Regular font.
func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err == nil {
			return nil
		}
	}
	if err := pdf.AddTTFFontData(fontFamily, goregular.TTF); err != nil {
		return fmt.Errorf("failed to load font for PDF: %w", err)
	}
	return nil
}
