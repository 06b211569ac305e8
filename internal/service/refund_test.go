package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mohessea007/FNE/internal/api/dto"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/httpclient"
	"github.com/mohessea007/FNE/internal/service"
	"github.com/mohessea007/FNE/internal/testutil"
	"github.com/mohessea007/FNE/internal/types"
)

const (
	authorityInvoiceID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	authorityLineID    = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
)

type RefundServiceSuite struct {
	testutil.BaseServiceSuite
	service service.RefundService
}

func TestRefundServiceSuite(t *testing.T) {
	suite.Run(t, new(RefundServiceSuite))
}

func (s *RefundServiceSuite) SetupTest() {
	s.BaseServiceSuite.SetupTest()
	s.SeedTenant()
	s.service = service.NewRefundService(s.GetParams())
}

// seedCertified installs a certified invoice with one line item and a matching
// snapshot row of five certified units.
func (s *RefundServiceSuite) seedCertified() *invoice.Invoice {
	fneID := authorityInvoiceID
	ref := "FNE-2026-000123"
	inv := &invoice.Invoice{
		UID:           types.GenerateUID(),
		ClientID:      1,
		PointOfSaleID: 1,
		Type:          types.InvoiceTypeSale,
		PaymentMethod: types.DefaultPaymentMethod,
		Status:        types.InvoiceStatusCertified,
		FNEInvoiceID:  &fneID,
		FNEReference:  &ref,
	}
	s.Require().NoError(s.InvoiceStore.CreateWithItems(s.GetContext(), inv, []*invoice.Item{
		{
			Reference:       "REF-001",
			Description:     "Sac de riz 25kg",
			Quantity:        5,
			Amount:          decimal.NewFromInt(12500),
			MeasurementUnit: "pcs",
			Taxes:           "TVA18",
			CustomTaxName:   "Taxe communale",
			CustomTaxAmount: decimal.NewFromInt(200),
		},
	}))
	s.Require().NoError(s.ReceivedItemStore.ReplaceForInvoice(s.GetContext(), inv.ID, []*invoice.ReceivedItem{
		{
			FNEItemID:       authorityLineID,
			Quantity:        5,
			Reference:       "REF-001",
			Description:     "Sac de riz 25kg",
			Amount:          decimal.NewFromInt(12500),
			MeasurementUnit: "pcs",
			Taxes:           []byte(`["TVA"]`),
		},
	}))
	return inv
}

func (s *RefundServiceSuite) refundRequest(quantity int) *dto.CreateRefundRequest {
	return &dto.CreateRefundRequest{
		Items: []dto.RefundItemRequest{{ID: authorityLineID, Quantity: quantity}},
	}
}

func (s *RefundServiceSuite) enqueueRefundCreated() {
	body := `{"reference":"AVO-2026-000007","id":"11111111-2222-4333-8444-555555555555","token":"http://54.247.95.108/fr/verification/QRTOKEN2"}`
	s.HTTPClient.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: []byte(body)})
}

func (s *RefundServiceSuite) TestRefundSuccess() {
	original := s.seedCertified()
	s.enqueueRefundCreated()

	resp, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(2))
	s.Require().NoError(err)
	s.Require().NotNil(resp)

	credit := resp.Refund.Invoice
	s.True(credit.IsRefund)
	s.Equal(types.InvoiceStatusRefunded, credit.Status)
	s.Require().NotNil(credit.OriginalInvoiceID)
	s.Equal(original.ID, *credit.OriginalInvoiceID)
	s.Require().NotNil(credit.FNEReference)
	s.Equal("AVO-2026-000007", *credit.FNEReference)

	// Credit lines carry negated quantities from the snapshot and the tax
	// fields of the original's matching line item.
	items, err := s.InvoiceStore.ListItems(s.GetContext(), credit.UID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(-2, items[0].Quantity)
	s.Equal("REF-001", items[0].Reference)
	s.Equal("TVA18", items[0].Taxes)
	s.Equal("Taxe communale", items[0].CustomTaxName)
	s.True(items[0].CustomTaxAmount.Equal(decimal.NewFromInt(200)))

	// The original flipped to refunded.
	reloaded, err := s.InvoiceStore.Get(s.GetContext(), original.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusRefunded, reloaded.Status)

	s.Equal("Avoir créé avec succès", resp.Authority.Message)

	// The audit row belongs to the credit invoice.
	logs, _ := s.LogStore.ListByInvoice(s.GetContext(), credit.ID)
	s.Require().Len(logs, 1)
	s.Equal("201", logs[0].ResponseCode)

	originalLogs, _ := s.LogStore.ListByInvoice(s.GetContext(), original.ID)
	s.Empty(originalLogs)

	// The call went to the authority's refund endpoint for that invoice.
	s.Contains(s.HTTPClient.LastRequest().URL, "/invoices/"+authorityInvoiceID+"/refund")
	s.Equal(1, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundQuantityExceedsCertified() {
	original := s.seedCertified()

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(6))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.HTTPClient.CallCount())

	// Nothing changed locally.
	reloaded, _ := s.InvoiceStore.Get(s.GetContext(), original.ID)
	s.Equal(types.InvoiceStatusCertified, reloaded.Status)
}

func (s *RefundServiceSuite) TestRefundUnknownSnapshotItem() {
	original := s.seedCertified()

	req := &dto.CreateRefundRequest{
		Items: []dto.RefundItemRequest{{ID: "00000000-0000-4000-8000-000000000000", Quantity: 1}},
	}
	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, req)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundBlockedByMalformedSnapshot() {
	// A snapshot row carrying a locally generated reference instead of an
	// authority UUID poisons the whole refund until a new certification.
	original := s.seedCertified()
	s.Require().NoError(s.ReceivedItemStore.ReplaceForInvoice(s.GetContext(), original.ID, []*invoice.ReceivedItem{
		{
			FNEItemID:       authorityLineID,
			Quantity:        5,
			Reference:       "REF-001",
			Description:     "Sac de riz 25kg",
			Amount:          decimal.NewFromInt(12500),
			MeasurementUnit: "pcs",
		},
		{
			FNEItemID:       "REF-OLD-123",
			Quantity:        1,
			Reference:       "REF-002",
			Description:     "Huile 5L",
			Amount:          decimal.NewFromInt(6000),
			MeasurementUnit: "pcs",
		},
	}))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundBlockedByEmptySnapshot() {
	original := s.seedCertified()
	s.Require().NoError(s.ReceivedItemStore.ReplaceForInvoice(s.GetContext(), original.ID, nil))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundAlreadyRefundedInvoice() {
	original := s.seedCertified()
	original.Status = types.InvoiceStatusRefunded
	s.Require().NoError(s.InvoiceStore.Update(s.GetContext(), original))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundDuplicateGuardFromExistingCredit() {
	// The original still reads certified but a successful credit already
	// exists, as after a refund whose status update was lost.
	original := s.seedCertified()
	credit := &invoice.Invoice{
		UID:               types.GenerateUID(),
		ClientID:          1,
		PointOfSaleID:     1,
		Type:              types.InvoiceTypeSale,
		IsRefund:          true,
		OriginalInvoiceID: &original.ID,
		Status:            types.InvoiceStatusRefunded,
	}
	s.Require().NoError(s.InvoiceStore.Create(s.GetContext(), credit))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundPendingInvoice() {
	inv := &invoice.Invoice{
		UID:           types.GenerateUID(),
		ClientID:      1,
		PointOfSaleID: 1,
		Type:          types.InvoiceTypeSale,
		Status:        types.InvoiceStatusPending,
	}
	s.Require().NoError(s.InvoiceStore.Create(s.GetContext(), inv))

	_, err := s.service.RefundInvoice(s.GetContext(), inv.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundOfCreditInvoice() {
	original := s.seedCertified()
	s.enqueueRefundCreated()
	resp, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().NoError(err)

	_, err = s.service.RefundInvoice(s.GetContext(), resp.Refund.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *RefundServiceSuite) TestRefundMissingAuthorityID() {
	inv := &invoice.Invoice{
		UID:           types.GenerateUID(),
		ClientID:      1,
		PointOfSaleID: 1,
		Type:          types.InvoiceTypeSale,
		Status:        types.InvoiceStatusCertified,
	}
	s.Require().NoError(s.InvoiceStore.Create(s.GetContext(), inv))

	_, err := s.service.RefundInvoice(s.GetContext(), inv.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *RefundServiceSuite) TestRefundRejectedByAuthority() {
	original := s.seedCertified()
	s.HTTPClient.EnqueueError(httpclient.NewError(422, []byte(`{"message":"Remboursement refusé"}`)))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsAuthorityRejected(err))

	// No credit invoice, original untouched, one audit row.
	isRefund := true
	credits, _ := s.InvoiceStore.List(s.GetContext(), &types.InvoiceFilter{IsRefund: &isRefund})
	s.Empty(credits)

	reloaded, _ := s.InvoiceStore.Get(s.GetContext(), original.ID)
	s.Equal(types.InvoiceStatusCertified, reloaded.Status)

	logs, _ := s.LogStore.ListByInvoice(s.GetContext(), original.ID)
	s.Require().Len(logs, 1)
	s.Equal("422", logs[0].ResponseCode)
	s.Equal("Remboursement refusé", logs[0].ResponseMsg)
}

func (s *RefundServiceSuite) TestRefundTransportFailureIsNotRetried() {
	// A transport failure leaves the outcome ambiguous at the authority; it
	// is reported to the caller and never retried automatically.
	original := s.seedCertified()
	s.HTTPClient.EnqueueError(errors.New("read tcp: i/o timeout"))

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsAuthorityRejected(err))
	s.Equal(1, s.HTTPClient.CallCount())

	reloaded, _ := s.InvoiceStore.Get(s.GetContext(), original.ID)
	s.Equal(types.InvoiceStatusCertified, reloaded.Status)

	logs, _ := s.LogStore.ListByInvoice(s.GetContext(), original.ID)
	s.Require().Len(logs, 1)
	s.Equal("500", logs[0].ResponseCode)
}

func (s *RefundServiceSuite) TestRefundCommitFailureAfterAcceptance() {
	original := s.seedCertified()
	s.enqueueRefundCreated()
	s.DBClient.CommitErr = errors.New("connection reset during commit")

	_, err := s.service.RefundInvoice(s.GetContext(), original.ID, s.refundRequest(1))
	s.Require().Error(err)
	s.True(ierr.IsReconciliation(err))
	s.Equal(1, s.HTTPClient.CallCount())
}
