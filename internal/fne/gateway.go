package fne

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mohessea007/FNE/internal/config"
	"github.com/mohessea007/FNE/internal/httpclient"
	"github.com/mohessea007/FNE/internal/logger"
)

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Gateway talks to the tax authority's external web service. Every call maps
// to a Result; business rejections and transport failures never surface as Go
// errors so callers can persist the outcome uniformly.
type Gateway struct {
	client  httpclient.Client
	baseURL string
	logger  *logger.Logger
}

func NewGateway(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) *Gateway {
	return &Gateway{
		client:  client,
		baseURL: strings.TrimRight(cfg.FNE.BaseURL, "/"),
		logger:  log,
	}
}

// Certify submits an invoice for certification. Only HTTP 201 counts as
// success; any other status, including other 2xx codes, is a rejection.
func (g *Gateway) Certify(ctx context.Context, invoice *WireInvoice, authToken string) *Result {
	payload, err := wireJSON.Marshal(invoice)
	if err != nil {
		return transportFailure(err)
	}

	g.logger.Debugw("submitting invoice for certification",
		"invoice_type", invoice.InvoiceType,
		"items", len(invoice.Items))

	return g.post(ctx, g.baseURL+"/invoices/sign", payload, authToken,
		"Facture certifiée avec succès",
		"Erreur lors de la certification de la facture")
}

// Refund asks the authority to issue a credit note against a previously
// certified invoice, identified by the authority's own invoice UUID.
func (g *Gateway) Refund(ctx context.Context, authorityInvoiceID string, items []RefundItem, authToken string) *Result {
	payload, err := wireJSON.Marshal(map[string][]RefundItem{"items": items})
	if err != nil {
		return transportFailure(err)
	}

	g.logger.Debugw("submitting refund request",
		"authority_invoice_id", authorityInvoiceID,
		"items", len(items))

	url := fmt.Sprintf("%s/invoices/%s/refund", g.baseURL, authorityInvoiceID)
	return g.post(ctx, url, payload, authToken,
		"Avoir créé avec succès",
		"Erreur lors de la création de l'avoir")
}

func (g *Gateway) post(ctx context.Context, url string, payload []byte, authToken, successMsg, failureMsg string) *Result {
	resp, err := g.client.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    url,
		Body:   payload,
		// The authority expects the tenant token verbatim, no scheme prefix.
		Headers: map[string]string{
			"Authorization": authToken,
		},
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			return &Result{
				Success: false,
				Code:    strconv.Itoa(httpErr.StatusCode),
				Message: authorityMessage(httpErr.Response, failureMsg),
				Data:    rawJSON(httpErr.Response),
			}
		}
		return transportFailure(err)
	}

	if resp.StatusCode != http.StatusCreated {
		return &Result{
			Success: false,
			Code:    strconv.Itoa(resp.StatusCode),
			Message: authorityMessage(resp.Body, failureMsg),
			Data:    rawJSON(resp.Body),
		}
	}

	return &Result{
		Success: true,
		Code:    strconv.Itoa(resp.StatusCode),
		Message: successMsg,
		Data:    rawJSON(resp.Body),
	}
}

func transportFailure(err error) *Result {
	return &Result{
		Success: false,
		Code:    "500",
		Message: "Erreur de connexion à l'API FNE: " + err.Error(),
	}
}

// authorityMessage extracts a human readable message from an authority error
// body, falling back to the caller supplied default.
func authorityMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := wireJSON.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return fallback
}

// rawJSON keeps the body only when it is valid JSON, so the persisted audit
// log never stores broken fragments.
func rawJSON(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}
