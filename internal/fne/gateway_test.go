package fne_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/fne"
	"github.com/mohessea007/FNE/internal/httpclient"
	"github.com/mohessea007/FNE/internal/logger"
	"github.com/mohessea007/FNE/internal/testutil"
)

type GatewaySuite struct {
	suite.Suite
	client  *testutil.MockHTTPClient
	gateway *fne.Gateway
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	s.Require().NoError(err)

	s.client = testutil.NewMockHTTPClient()
	s.gateway = fne.NewGateway(cfg, s.client, log)
}

func (s *GatewaySuite) TestCertifyCreated() {
	body := []byte(`{"reference":"FNE-REF-1","id":"9f8e7d6c-0000-0000-0000-000000000001","token":"TOK"}`)
	s.client.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: body})

	result := s.gateway.Certify(context.Background(), &fne.WireInvoice{InvoiceType: "sale"}, "auth-token")

	s.True(result.Success)
	s.Equal("201", result.Code)
	s.Equal("Facture certifiée avec succès", result.Message)
	s.JSONEq(string(body), string(result.Data))

	req := s.client.LastRequest()
	s.Require().NotNil(req)
	s.Equal("POST", req.Method)
	s.Contains(req.URL, "/invoices/sign")
	// The tenant's authority token goes on the wire unmodified.
	s.Equal("auth-token", req.Headers["Authorization"])
}

func (s *GatewaySuite) TestCertifyNon201IsRejection() {
	// Some gateways answer 200 with a body; only 201 counts as certified.
	s.client.EnqueueResponse(&httpclient.Response{StatusCode: 200, Body: []byte(`{"message":"accepté partiellement"}`)})

	result := s.gateway.Certify(context.Background(), &fne.WireInvoice{}, "t")

	s.False(result.Success)
	s.Equal("200", result.Code)
	s.Equal("accepté partiellement", result.Message)
}

func (s *GatewaySuite) TestCertifyAuthorityError() {
	s.client.EnqueueError(httpclient.NewError(400, []byte(`{"message":"NCC client invalide"}`)))

	result := s.gateway.Certify(context.Background(), &fne.WireInvoice{}, "t")

	s.False(result.Success)
	s.Equal("400", result.Code)
	s.Equal("NCC client invalide", result.Message)
}

func (s *GatewaySuite) TestCertifyTransportError() {
	s.client.EnqueueError(errors.New("dial tcp: connection refused"))

	result := s.gateway.Certify(context.Background(), &fne.WireInvoice{}, "t")

	s.False(result.Success)
	s.Equal("500", result.Code)
	s.Contains(result.Message, "Erreur de connexion à l'API FNE")
}

func (s *GatewaySuite) TestRefundCreated() {
	s.client.EnqueueResponse(&httpclient.Response{StatusCode: 201, Body: []byte(`{"reference":"AVO-1"}`)})

	items := []fne.RefundItem{{ID: "9f8e7d6c-0000-0000-0000-000000000002", Quantity: 2}}
	result := s.gateway.Refund(context.Background(), "inv-uuid", items, "t")

	s.True(result.Success)
	s.Equal("Avoir créé avec succès", result.Message)

	req := s.client.LastRequest()
	s.Require().NotNil(req)
	s.Contains(req.URL, "/invoices/inv-uuid/refund")

	var payload map[string][]fne.RefundItem
	s.Require().NoError(json.Unmarshal(req.Body, &payload))
	s.Equal(items, payload["items"])
}

func (s *GatewaySuite) TestRefundErrorBodyWithoutMessage() {
	s.client.EnqueueError(httpclient.NewError(500, []byte(`not json`)))

	result := s.gateway.Refund(context.Background(), "inv-uuid", nil, "t")

	s.False(result.Success)
	s.Equal("500", result.Code)
	s.Equal("Erreur lors de la création de l'avoir", result.Message)
	s.Nil(result.Data)
}

func TestNormalize(t *testing.T) {
	t.Run("flat envelope", func(t *testing.T) {
		n := fne.Normalize([]byte(`{"reference":"R1","id":"ID1","token":"T1","items":[{"id":"a","reference":"ref"}]}`))
		require.NotNil(t, n)
		assert.Equal(t, "R1", n.Reference)
		assert.Equal(t, "ID1", n.InvoiceID)
		assert.Equal(t, "T1", n.Token)
		require.Len(t, n.Items, 1)
	})

	t.Run("nested invoice envelope", func(t *testing.T) {
		n := fne.Normalize([]byte(`{"invoice":{"reference":"R2","id":"ID2","token":"T2","items":[{"id":"b"}]}}`))
		require.NotNil(t, n)
		assert.Equal(t, "R2", n.Reference)
		assert.Equal(t, "ID2", n.InvoiceID)
		assert.Equal(t, "T2", n.Token)
		require.Len(t, n.Items, 1)
	})

	t.Run("string quantities are tolerated", func(t *testing.T) {
		n := fne.Normalize([]byte(`{"items":[{"id":"c","quantity":"4","amount":"1500.5"}]}`))
		require.NotNil(t, n)
		require.Len(t, n.Items, 1)
		assert.Equal(t, fne.Number(4), n.Items[0].Quantity)
		assert.Equal(t, fne.Number(1500.5), n.Items[0].Amount)
	})

	t.Run("unparseable body yields nil", func(t *testing.T) {
		assert.Nil(t, fne.Normalize([]byte(`not json`)))
		assert.Nil(t, fne.Normalize(nil))
	})
}
