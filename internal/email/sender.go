package email

import (
	"context"
	"errors"
)

// TestReport es lo minimo que necesita el aviso de reporte listo.
type TestReport struct {
	ProductTitle  string
	PersonaCount  int
	LikeRate      float64
	SuperLikeRate float64
	TopConcerns   []string
}

// Sender define la interfaz para notificaciones por correo.
type Sender interface {
	SendTestReportReady(ctx context.Context, toEmail string, report TestReport) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendTestReportReady(_ context.Context, _ string, _ TestReport) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
