package notifier

import "context"

// Labeler flags a conversation for human follow-up. *crm.Client implements it.
type Labeler interface {
	AddHandoffLabel(ctx context.Context, conversationID string) error
}

// CRMSender delivers notifications by labelling the conversation in the CRM.
type CRMSender struct {
	crm Labeler
}

func NewCRMSender(crm Labeler) *CRMSender {
	return &CRMSender{crm: crm}
}

func (s *CRMSender) Send(ctx context.Context, conversationID string) error {
	return s.crm.AddHandoffLabel(ctx, conversationID)
}

// NopSender accepts every notification and delivers nothing.
// It stands in when neither the CRM nor a queue is configured.
type NopSender struct{}

func (NopSender) Send(context.Context, string) error { return nil }
