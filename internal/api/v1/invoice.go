package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mohessea007/FNE/internal/api/dto"
	ierr "github.com/mohessea007/FNE/internal/errors"
	"github.com/mohessea007/FNE/internal/service"
	"github.com/mohessea007/FNE/internal/types"
)

// InvoiceHandler exposes the certification and refund operations. Invoice
// path parameters accept either the numeric id or the business uid, so
// API-key integrations that only ever saw uids keep working.
type InvoiceHandler struct {
	certification service.CertificationService
	refund        service.RefundService
	invoice       service.InvoiceService
}

func NewInvoiceHandler(
	certification service.CertificationService,
	refund service.RefundService,
	invoice service.InvoiceService,
) *InvoiceHandler {
	return &InvoiceHandler{
		certification: certification,
		refund:        refund,
		invoice:       invoice,
	}
}

// CreateAndCertify handles POST /invoices: store the invoice and submit it
// for certification in one call.
func (h *InvoiceHandler) CreateAndCertify(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Corps de requête invalide").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.certification.CreateAndCertifyInvoice(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Certify handles POST /invoices/:id/certify for an existing invoice.
func (h *InvoiceHandler) Certify(c *gin.Context) {
	var (
		resp *dto.CertificationResponse
		err  error
	)
	if id, numeric := invoiceParam(c); numeric {
		resp, err = h.certification.CertifyInvoice(c.Request.Context(), id)
	} else {
		resp, err = h.certification.CertifyInvoiceByUID(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recertify handles PUT /invoices/:id: rewrite a non certified invoice and
// resubmit it.
func (h *InvoiceHandler) Recertify(c *gin.Context) {
	id, numeric := invoiceParam(c)
	if !numeric {
		c.Error(ierr.NewError("invoice id must be numeric").
			WithHint("Identifiant de facture invalide").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Corps de requête invalide").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.certification.RecertifyInvoice(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refund handles POST /invoices/:id/refund.
func (h *InvoiceHandler) Refund(c *gin.Context) {
	var req dto.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Corps de requête invalide").
			Mark(ierr.ErrValidation))
		return
	}

	var (
		resp *dto.RefundResponse
		err  error
	)
	if id, numeric := invoiceParam(c); numeric {
		resp, err = h.refund.RefundInvoice(c.Request.Context(), id, &req)
	} else {
		resp, err = h.refund.RefundInvoiceByUID(c.Request.Context(), c.Param("id"), &req)
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	var (
		resp *dto.InvoiceResponse
		err  error
	)
	if id, numeric := invoiceParam(c); numeric {
		resp, err = h.invoice.GetInvoice(c.Request.Context(), id)
	} else {
		resp, err = h.invoice.GetInvoiceByUID(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /invoices with filter query parameters.
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter types.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Paramètres de filtre invalides").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoice.ListInvoices(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListLogs handles GET /invoices/:id/logs: the audit trail of authority
// interactions for one invoice.
func (h *InvoiceHandler) ListLogs(c *gin.Context) {
	id, numeric := invoiceParam(c)
	if !numeric {
		c.Error(ierr.NewError("invoice id must be numeric").
			WithHint("Identifiant de facture invalide").
			Mark(ierr.ErrValidation))
		return
	}

	logs, err := h.invoice.ListInvoiceLogs(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs, "total": len(logs)})
}

func invoiceParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}
