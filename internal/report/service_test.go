package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ayursutra-backend/internal/consultation"
	"ayursutra-backend/internal/matching"
	"ayursutra-backend/pkg/logging"
)

type fakeTelegram struct {
	messages []string
	docs     []string
	docErr   error
}

func (f *fakeTelegram) SendMessage(_ context.Context, _ int64, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTelegram) SendDocument(_ context.Context, _ int64, data []byte, fileName string) error {
	f.docs = append(f.docs, fileName)
	return f.docErr
}

func sampleConsultation() consultation.Consultation {
	return consultation.Consultation{
		ID:            uuid.New(),
		PatientName:   "Asha",
		Problem:       "Itchy skin on both arms for two weeks, worse at night after hot showers.",
		Priority:      "High",
		DoctorName:    "Dr. Mehta",
		Specialty:     "Skin Care",
		Therapy:       "Panchakarma",
		AvailableDays: "Mon-Fri",
		AvailableTime: "10:00 AM - 5:00 PM",
		Schedule:      "2025-03-07 09:15 AM",
		Strategy:      matching.StrategySpecialty,
		CreatedAt:     time.Date(2025, 3, 5, 9, 15, 0, 0, time.UTC),
	}
}

func TestRender_FallsBackToEmbeddedFont(t *testing.T) {
	svc := NewService(nil, 0, []string{"/nonexistent/font.ttf"}, nil, logging.Discard())

	data, err := svc.Render(sampleConsultation())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSendDoctorReport(t *testing.T) {
	tg := &fakeTelegram{}
	svc := NewService(tg, -100, nil, time.UTC, logging.Discard())
	c := sampleConsultation()

	require.NoError(t, svc.SendDoctorReport(context.Background(), c))

	require.Len(t, tg.messages, 1)
	assert.Contains(t, tg.messages[0], "Dr. Mehta")
	assert.Contains(t, tg.messages[0], "2025-03-07 09:15 AM")
	assert.Equal(t, []string{"appointment_" + c.ID.String() + ".pdf"}, tg.docs)
}

func TestSendDoctorReport_Disabled(t *testing.T) {
	svc := NewService(nil, -100, nil, nil, logging.Discard())
	assert.ErrorIs(t, svc.SendDoctorReport(context.Background(), sampleConsultation()), consultation.ErrNotifyUnavailable)

	svc = NewService(&fakeTelegram{}, 0, nil, nil, logging.Discard())
	assert.ErrorIs(t, svc.SendDoctorReport(context.Background(), sampleConsultation()), consultation.ErrNotifyUnavailable)
}

func TestSendDoctorReport_DocumentError(t *testing.T) {
	tg := &fakeTelegram{docErr: errors.New("telegram down")}
	svc := NewService(tg, 7, nil, nil, logging.Discard())

	err := svc.SendDoctorReport(context.Background(), sampleConsultation())

	assert.EqualError(t, err, "telegram down")
}
