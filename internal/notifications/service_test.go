package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/enums"
	"github.com/chopnowhq/chopnow-backend/pkg/mail"
)

type stubSender struct {
	sent    []mail.Message
	failFor map[string]error
}

func (s *stubSender) Send(ctx context.Context, box config.Mailbox, msg mail.Message) error {
	if err, ok := s.failFor[msg.To]; ok {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func confirmedOrder(branchID uuid.UUID) *models.Order {
	fee := decimal.NewFromInt(500)
	return &models.Order{
		ID:          uuid.New(),
		BranchID:    branchID,
		Status:      enums.OrderStatusConfirmed,
		TotalAmount: decimal.NewFromInt(5500),
		DeliveryFee: &fee,
		User:        &models.User{Email: "customer@example.com"},
		Branch:      &models.Branch{ID: branchID, Name: "Ikeja", Email: "ikeja@chopnow.app"},
		Items: []models.OrderItem{
			{
				MenuItemID: uuid.New(),
				Quantity:   2,
				UnitPrice:  decimal.NewFromInt(2500),
				Subtotal:   decimal.NewFromInt(5000),
				MenuItem:   &models.MenuItem{Name: "Jollof Rice"},
			},
		},
	}
}

func mailConfig(branchID uuid.UUID) config.Mail {
	return config.Mail{
		BranchSenders:   map[string]string{branchID.String(): "orders-ikeja@chopnow.app"},
		BranchPasswords: map[string]string{branchID.String(): "secret"},
	}
}

func TestOrderStatusChangedSendsBoth(t *testing.T) {
	branchID := uuid.New()
	sender := &stubSender{}
	svc, err := NewService(sender, mailConfig(branchID), config.Notifications{Policy: "confirmed_only"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	order := confirmedOrder(branchID)
	if err := svc.OrderStatusChanged(context.Background(), order); err != nil {
		t.Fatalf("OrderStatusChanged: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected two sends, got %d", len(sender.sent))
	}
	recipients := map[string]bool{}
	for _, msg := range sender.sent {
		recipients[msg.To] = true
		if msg.From != "orders-ikeja@chopnow.app" {
			t.Fatalf("sends must come from the branch mailbox, got %s", msg.From)
		}
		if !strings.HasPrefix(msg.Subject, "Order confirmed: #") {
			t.Fatalf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.HTML, "Jollof Rice") {
			t.Fatal("email body must list the line items")
		}
		if !strings.Contains(msg.HTML, "5500.00") {
			t.Fatal("email body must show the grand total")
		}
		if !strings.Contains(msg.HTML, "500.00") {
			t.Fatal("email body must show the delivery fee")
		}
	}
	if !recipients["customer@example.com"] || !recipients["ikeja@chopnow.app"] {
		t.Fatalf("expected customer and branch recipients, got %v", recipients)
	}
}

func TestOrderStatusChangedOneFailureDoesNotBlockOther(t *testing.T) {
	branchID := uuid.New()
	sender := &stubSender{failFor: map[string]error{
		"customer@example.com": errors.New("mailbox full"),
	}}
	svc, err := NewService(sender, mailConfig(branchID), config.Notifications{Policy: "confirmed_only"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.OrderStatusChanged(context.Background(), confirmedOrder(branchID))
	if err == nil {
		t.Fatal("expected the customer failure to be reported")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("branch send must still happen, got %d sends", len(sender.sent))
	}
	if sender.sent[0].To != "ikeja@chopnow.app" {
		t.Fatalf("unexpected surviving recipient %s", sender.sent[0].To)
	}
}

func TestOrderStatusChangedUnknownBranchMailbox(t *testing.T) {
	sender := &stubSender{}
	svc, err := NewService(sender, mailConfig(uuid.New()), config.Notifications{Policy: "confirmed_only"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.OrderStatusChanged(context.Background(), confirmedOrder(uuid.New()))
	if err == nil {
		t.Fatal("expected an error for a branch without a mailbox")
	}
	if len(sender.sent) != 0 {
		t.Fatal("no sends expected without credentials")
	}
}

func TestShouldNotifyPolicies(t *testing.T) {
	branchID := uuid.New()

	confirmedOnly, err := NewService(&stubSender{}, mailConfig(branchID), config.Notifications{Policy: "confirmed_only"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if !confirmedOnly.ShouldNotify(enums.OrderStatusConfirmed) {
		t.Fatal("confirmed_only must notify on confirmed")
	}
	if confirmedOnly.ShouldNotify(enums.OrderStatusCancelled) {
		t.Fatal("confirmed_only must not notify on cancelled")
	}

	everyUpdate, err := NewService(&stubSender{}, mailConfig(branchID), config.Notifications{Policy: "every_update"}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if !everyUpdate.ShouldNotify(enums.OrderStatusCancelled) {
		t.Fatal("every_update must notify on cancelled")
	}

	if _, err := NewService(&stubSender{}, mailConfig(branchID), config.Notifications{Policy: "sometimes"}, nil, nil); err == nil {
		t.Fatal("unknown policy must be rejected at construction")
	}
}
