package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/skywardclean/ordering-backend/internal/clients/sendgrid"
	"github.com/skywardclean/ordering-backend/internal/clients/slack"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

const requestSheetName = "Request"

type SubmitResult struct {
	RequestID uuid.UUID `json:"request_id"`
	MessageID string    `json:"message_id,omitempty"`
}

// SupplyRequestService turns a finished request into an xlsx attachment,
// emails it to the supervisor, and posts a summary to a Slack channel. The
// Slack post is best-effort: its failure never fails the submission.
type SupplyRequestService struct {
	log          *logger.Logger
	mailer       sendgrid.Client
	slackWebhook slack.WebhookClient
	toEmail      string
	slackEmail   string
}

func NewSupplyRequestService(baseLog *logger.Logger, mailer sendgrid.Client, slackWebhook slack.WebhookClient, toEmail, slackEmail string) *SupplyRequestService {
	return &SupplyRequestService{
		log:          baseLog.With("service", "SupplyRequestService"),
		mailer:       mailer,
		slackWebhook: slackWebhook,
		toEmail:      toEmail,
		slackEmail:   slackEmail,
	}
}

// BuildWorkbook lays out the request the way the supervisor expects it: a
// site/employee/submitted header block, a blank row, then a five-column
// table of the item lines.
func BuildWorkbook(req types.SupplyRequest, submittedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(requestSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Site", req.SiteName},
		{"Employee", req.EmployeeName},
		{"Submitted", submittedAt.UTC().Format(time.RFC3339)},
		{},
		{"Category", "Item", "SKU", "On Hand", "Order Qty"},
	}
	for _, item := range req.Items {
		rows = append(rows, []interface{}{item.Category, item.Name, item.SKU, item.OnHand, item.OrderQty})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(requestSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("Failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *SupplyRequestService) Submit(ctx context.Context, req types.SupplyRequest) (*SubmitResult, error) {
	if strings.TrimSpace(req.SiteName) == "" {
		return nil, &ValidationError{Field: "site_name", Message: "site name is required"}
	}
	if strings.TrimSpace(req.EmployeeName) == "" {
		return nil, &ValidationError{Field: "employee_name", Message: "employee name is required"}
	}
	if len(req.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	submittedAt := time.Now()
	workbook, err := BuildWorkbook(req, submittedAt)
	if err != nil {
		return nil, err
	}

	orderLines := 0
	for _, item := range req.Items {
		if item.OrderQty > 0 {
			orderLines++
		}
	}

	requestID := uuid.New()
	recipients := []sendgrid.EmailAddress{{Email: s.toEmail}}
	if s.slackEmail != "" {
		recipients = append(recipients, sendgrid.EmailAddress{Email: s.slackEmail})
	}

	filename := fmt.Sprintf("supply_request_%s_%s.xlsx",
		strings.ReplaceAll(req.SiteName, " ", "_"),
		submittedAt.Format("2006-01-02"))

	result, err := s.mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:      recipients,
		Subject: fmt.Sprintf("Supply Request - %s - %s", req.SiteName, req.EmployeeName),
		HTML: fmt.Sprintf(
			"<h2>New Supply Request</h2>"+
				"<p><strong>Site:</strong> %s</p>"+
				"<p><strong>Employee:</strong> %s</p>"+
				"<p><strong>Submitted:</strong> %s</p>"+
				"<p><strong>Total Items:</strong> %d</p>"+
				"<p><strong>Items to Order:</strong> %d</p>"+
				"<br><p>Please find the detailed Excel sheet attached.</p>",
			req.SiteName, req.EmployeeName, submittedAt.Format(time.RFC1123), len(req.Items), orderLines),
		Attachments: []sendgrid.Attachment{{
			Filename: filename,
			MIMEType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:  workbook,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to send request email: %w", err)
	}

	if s.slackWebhook != nil {
		if err := s.slackWebhook.Post(ctx, s.slackMessage(req, orderLines, submittedAt)); err != nil {
			s.log.Warn("slack notification failed", "request_id", requestID, "error", err)
		}
	}

	s.log.Info("supply request submitted", "request_id", requestID, "site", req.SiteName, "items", len(req.Items))
	return &SubmitResult{RequestID: requestID, MessageID: result.MessageID}, nil
}

func (s *SupplyRequestService) slackMessage(req types.SupplyRequest, orderLines int, submittedAt time.Time) slack.Message {
	var summary []string
	count := 0
	for _, item := range req.Items {
		if item.OrderQty <= 0 {
			continue
		}
		if count < 20 {
			summary = append(summary, fmt.Sprintf("• %s (%s) x %d", item.Name, item.SKU, item.OrderQty))
		}
		count++
	}
	text := strings.Join(summary, "\n")
	if count > 20 {
		text += "\n...and more items"
	}
	return slack.Message{
		Text: "New supply request submitted",
		Blocks: []slack.Block{
			{Type: "header", Text: &slack.TextObject{Type: "plain_text", Text: "New Supply Request"}},
			{Type: "section", Fields: []slack.TextObject{
				{Type: "mrkdwn", Text: "*Site:*\n" + req.SiteName},
				{Type: "mrkdwn", Text: "*Employee:*\n" + req.EmployeeName},
			}},
			{Type: "section", Fields: []slack.TextObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Total Items:*\n%d", len(req.Items))},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Items to Order:*\n%d", orderLines)},
			}},
			{Type: "section", Text: &slack.TextObject{Type: "mrkdwn", Text: "*Order Summary:*\n" + text}},
			{Type: "context", Elements: []slack.TextObject{
				{Type: "mrkdwn", Text: "Submitted at " + submittedAt.Format(time.RFC1123)},
			}},
		},
	}
}
