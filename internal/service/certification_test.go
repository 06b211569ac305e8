package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mohessea007/FNE/internal/api/dto"
	"github.com/mohessea007/FNE/internal/domain/invoice"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/httpclient"
	"github.com/mohessea007/FNE/internal/service"
	"github.com/mohessea007/FNE/internal/testutil"
	"github.com/mohessea007/FNE/internal/types"
)

const fneItemID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

type CertificationServiceSuite struct {
	testutil.BaseServiceSuite
	service service.CertificationService
}

func TestCertificationServiceSuite(t *testing.T) {
	suite.Run(t, new(CertificationServiceSuite))
}

func (s *CertificationServiceSuite) SetupTest() {
	s.BaseServiceSuite.SetupTest()
	s.SeedTenant()
	s.service = service.NewCertificationService(s.GetParams())
}

func (s *CertificationServiceSuite) saleRequest() *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		ClientID:      1,
		PointOfSaleID: 1,
		Type:          types.InvoiceTypeSale,
		SellerName:    "Awa K.",
		Items: []dto.CreateInvoiceItemRequest{
			{
				Reference:   "REF-001",
				Description: "Sac de riz 25kg",
				Quantity:    2,
				Amount:      decimal.NewFromInt(12500),
				Taxes:       fne.TaxSpec{"TVA18"},
			},
		},
	}
}

func (s *CertificationServiceSuite) enqueueCertified() {
	body := fmt.Sprintf(
		`{"reference":"FNE-2026-000123","id":"%s","token":"http://54.247.95.108/fr/verification/QRTOKEN1","items":[{"id":"%s","reference":"REF-001","quantity":2,"amount":12500,"measurementUnit":"pcs","taxes":["TVA"]}]}`,
		"7c9e6679-7425-40de-944b-e07fc1f90ae7", fneItemID)
	s.HTTPClient.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: []byte(body)})
}

func (s *CertificationServiceSuite) TestCreateAndCertifySuccess() {
	s.enqueueCertified()

	resp, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().NoError(err)
	s.Require().NotNil(resp)

	inv := resp.Invoice.Invoice
	s.Equal(types.InvoiceStatusCertified, inv.Status)
	s.Require().NotNil(inv.FNEReference)
	s.Equal("FNE-2026-000123", *inv.FNEReference)
	s.Require().NotNil(inv.FNEInvoiceID)
	s.Equal("7c9e6679-7425-40de-944b-e07fc1f90ae7", *inv.FNEInvoiceID)
	s.Require().NotNil(inv.FNETokenValue)
	s.Equal("QRTOKEN1", *inv.FNETokenValue)
	s.True(resp.Authority.Success)
	s.Equal("201", resp.Authority.Code)

	// Exactly one authority call for the whole operation.
	s.Equal(1, s.HTTPClient.CallCount())

	// The local item was stamped with the authority line id.
	items, err := s.InvoiceStore.ListItems(s.GetContext(), inv.UID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Require().NotNil(items[0].FNEItemID)
	s.Equal(fneItemID, *items[0].FNEItemID)

	// Snapshot rows exist for the refund path.
	snapshot, err := s.ReceivedItemStore.ListByInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 1)
	s.Equal(fneItemID, snapshot[0].FNEItemID)
	s.Equal(2, snapshot[0].Quantity)

	// One audit row with the success code and the received token.
	logs, err := s.LogStore.ListByInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("201", logs[0].ResponseCode)
	s.Require().NotNil(logs[0].TokenReceived)
}

func (s *CertificationServiceSuite) TestWirePayloadCarriesConvertedTaxes() {
	s.enqueueCertified()

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().NoError(err)

	req := s.HTTPClient.LastRequest()
	s.Require().NotNil(req)
	s.Contains(string(req.Body), `"taxes":["TVA"]`)
	s.Contains(string(req.Body), `"template":"B2C"`)
	s.Contains(string(req.Body), `"pointOfSale":"Caisse principale"`)
	s.Contains(string(req.Body), `"establishment":"Boutique Abidjan SARL"`)
	s.NotContains(string(req.Body), "TVA18")
}

func (s *CertificationServiceSuite) TestPurchasePayloadSuppressesTaxes() {
	s.enqueueCertified()

	req := s.saleRequest()
	req.Type = types.InvoiceTypePurchase
	req.Items[0].CustomTaxName = "Taxe communale"
	req.Items[0].CustomTaxAmount = decimal.NewFromInt(200)

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), req)
	s.Require().NoError(err)

	body := string(s.HTTPClient.LastRequest().Body)
	s.NotContains(body, `"taxes"`)
	s.NotContains(body, `"customTaxes"`)
}

func (s *CertificationServiceSuite) TestRejectionKeepsInvoiceEditable() {
	s.HTTPClient.EnqueueError(httpclient.NewError(400, []byte(`{"message":"NCC client invalide"}`)))

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().Error(err)
	s.True(ierr.IsAuthorityRejected(err))

	// The invoice was persisted as rejected despite the failure.
	invoices, listErr := s.InvoiceStore.List(s.GetContext(), &types.InvoiceFilter{})
	s.Require().NoError(listErr)
	s.Require().Len(invoices, 1)
	s.Equal(types.InvoiceStatusRejected, invoices[0].Status)
	s.Nil(invoices[0].FNEReference)

	logs, logErr := s.LogStore.ListByInvoice(s.GetContext(), invoices[0].ID)
	s.Require().NoError(logErr)
	s.Require().Len(logs, 1)
	s.Equal("400", logs[0].ResponseCode)
	s.Equal("NCC client invalide", logs[0].ResponseMsg)

	// A corrected resubmission certifies the same invoice.
	s.enqueueCertified()
	resp, err := s.service.CertifyInvoice(s.GetContext(), invoices[0].ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusCertified, resp.Invoice.Status)
	s.Equal(2, s.HTTPClient.CallCount())
}

func (s *CertificationServiceSuite) TestAlreadyCertifiedMakesNoCall() {
	s.enqueueCertified()
	resp, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().NoError(err)

	_, err = s.service.CertifyInvoice(s.GetContext(), resp.Invoice.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Contains(err.Error(), "already certified")
	s.Equal(1, s.HTTPClient.CallCount())
}

func (s *CertificationServiceSuite) TestSaleWithoutVATMakesNoCall() {
	req := s.saleRequest()
	req.Items[0].Taxes = nil

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), req)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}

func (s *CertificationServiceSuite) TestTransportFailureMarksRejected() {
	s.HTTPClient.EnqueueError(errors.New("dial tcp: connection refused"))

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().Error(err)
	s.True(ierr.IsAuthorityRejected(err))

	invoices, _ := s.InvoiceStore.List(s.GetContext(), &types.InvoiceFilter{})
	s.Require().Len(invoices, 1)
	logs, _ := s.LogStore.ListByInvoice(s.GetContext(), invoices[0].ID)
	s.Require().Len(logs, 1)
	s.Equal("500", logs[0].ResponseCode)
	s.Contains(logs[0].ResponseMsg, "Erreur de connexion à l'API FNE")
}

func (s *CertificationServiceSuite) TestCommitFailureAfterAcceptance() {
	s.enqueueCertified()
	s.DBClient.CommitErr = errors.New("connection reset during commit")

	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().Error(err)
	s.True(ierr.IsReconciliation(err))
	s.Equal(1, s.HTTPClient.CallCount())
}

func (s *CertificationServiceSuite) TestRecertifyReplacesItems() {
	s.HTTPClient.EnqueueError(httpclient.NewError(400, []byte(`{"message":"rejet"}`)))
	_, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().Error(err)

	invoices, _ := s.InvoiceStore.List(s.GetContext(), &types.InvoiceFilter{})
	s.Require().Len(invoices, 1)

	corrected := s.saleRequest()
	corrected.Items[0].Reference = "REF-002"
	corrected.Items[0].Description = "Sac de riz 50kg"
	s.enqueueCertified()

	resp, err := s.service.RecertifyInvoice(s.GetContext(), invoices[0].ID, corrected)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusCertified, resp.Invoice.Status)

	items, _ := s.InvoiceStore.ListItems(s.GetContext(), resp.Invoice.UID)
	s.Require().Len(items, 1)
	s.Equal("REF-002", items[0].Reference)
}

func (s *CertificationServiceSuite) TestSecondCertificationReplacesSnapshot() {
	s.enqueueCertified()
	resp, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().NoError(err)
	inv := resp.Invoice.Invoice

	// After a refund the invoice may be submitted again; the new response
	// must replace the previous snapshot wholesale.
	inv.Status = types.InvoiceStatusRefunded
	s.Require().NoError(s.InvoiceStore.Update(s.GetContext(), inv))

	newLineID := "9b2f1c3a-0d4e-4f5a-8b6c-7d8e9f0a1b2c"
	body := fmt.Sprintf(
		`{"reference":"FNE-2026-000456","id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","token":"http://54.247.95.108/fr/verification/QRTOKEN3","items":[{"id":"%s","reference":"REF-001","quantity":2,"amount":12500,"measurementUnit":"pcs","taxes":["TVA"]}]}`,
		newLineID)
	s.HTTPClient.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: []byte(body)})

	_, err = s.service.CertifyInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	snapshot, err := s.ReceivedItemStore.ListByInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 1)
	s.Equal(newLineID, snapshot[0].FNEItemID)
}

func (s *CertificationServiceSuite) TestSnapshotClearedWhenNoValidItems() {
	s.enqueueCertified()
	resp, err := s.service.CreateAndCertifyInvoice(s.GetContext(), s.saleRequest())
	s.Require().NoError(err)
	inv := resp.Invoice.Invoice

	inv.Status = types.InvoiceStatusRefunded
	s.Require().NoError(s.InvoiceStore.Update(s.GetContext(), inv))

	// The authority echoed items but none carries a usable UUID. The old
	// snapshot must not survive to vouch for refund eligibility.
	body := `{"reference":"FNE-2026-000789","id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","token":"http://54.247.95.108/fr/verification/QRTOKEN4","items":[{"id":"not-a-uuid","reference":"REF-001","quantity":2,"amount":12500,"measurementUnit":"pcs","taxes":["TVA"]}]}`
	s.HTTPClient.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: []byte(body)})

	_, err = s.service.CertifyInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	snapshot, err := s.ReceivedItemStore.ListByInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Empty(snapshot)
}

func (s *CertificationServiceSuite) TestRefundInvoiceCannotBeCertified() {
	originalID := int64(99)
	credit := &invoice.Invoice{
		UID:               types.GenerateUID(),
		ClientID:          1,
		PointOfSaleID:     1,
		Type:              types.InvoiceTypeSale,
		IsRefund:          true,
		OriginalInvoiceID: &originalID,
		Status:            types.InvoiceStatusRefunded,
	}
	s.Require().NoError(s.InvoiceStore.Create(s.GetContext(), credit))

	_, err := s.service.CertifyInvoice(s.GetContext(), credit.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.HTTPClient.CallCount())
}
