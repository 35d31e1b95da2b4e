package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
var ErrInvalidProcessorReference = errors.New("invalid processor reference")

// Mercado Pago payment_method_id values for the non-card instruments.
const (
	paymentMethodPix    = "pix"
	paymentMethodBoleto = "bolbradesco"
)

type MercadoPagoGateway struct {
	client          payment.Client
	notificationURL string
	log             *logger.Logger

	mockMode bool
	mockSeq  atomic.Int64
	mu       sync.Mutex
	mocked   map[string]entities.ProcessorPayment
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg config.PaymentsConfig, log *logger.Logger) (*MercadoPagoGateway, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx := log.WithComponent(context.Background(), "payment.gateway")
	if cfg.MockEnabled() {
		log.Info(ctx, "mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, log: log, mocked: map[string]entities.ProcessorPayment{}}, nil
	}

	if cfg.AccessToken == "" {
		log.Error(ctx, "gateway not configured", ErrMissingMercadoPagoAccessToken)
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		log.Error(ctx, "failed creating sdk config", err)
		return nil, err
	}
	log.Info(ctx, "Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(sdkCfg), notificationURL: cfg.NotificationURL, log: log}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req entities.ProcessorPaymentRequest) (entities.ProcessorPayment, error) {
	ctx = g.log.WithFields(ctx, map[string]any{"component": "payment.gateway", "order_id": req.OrderID, "instrument": string(req.Instrument)})
	if g.mockMode {
		return g.mockCreate(ctx, req)
	}
	if g.client == nil {
		return entities.ProcessorPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	body, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return entities.ProcessorPayment{}, err
	}
	var sdkReq payment.Request
	if err := json.Unmarshal(body, &sdkReq); err != nil {
		g.log.Error(ctx, "payload unmarshal failed", err)
		return entities.ProcessorPayment{}, err
	}

	resp, err := g.client.Create(ctx, sdkReq)
	if err != nil {
		g.log.Error(ctx, "sdk create failed", err)
		return entities.ProcessorPayment{}, err
	}
	out, err := normalize(req.Instrument, resp)
	if err != nil {
		g.log.Error(ctx, "response normalize failed", err)
		return entities.ProcessorPayment{}, err
	}
	g.log.Info(g.log.WithFields(ctx, map[string]any{"processor_reference": out.Reference, "processor_status": out.Status}), "create success")
	return out, nil
}

func (g *MercadoPagoGateway) GetPayment(ctx context.Context, reference string) (entities.ProcessorPayment, error) {
	ctx = g.log.WithFields(ctx, map[string]any{"component": "payment.gateway", "processor_reference": reference})
	if g.mockMode {
		return g.mockGet(ctx, reference)
	}
	if g.client == nil {
		return entities.ProcessorPayment{}, ErrMercadoPagoGatewayNotConfigured
	}
	id, err := strconv.Atoi(strings.TrimSpace(reference))
	if err != nil {
		return entities.ProcessorPayment{}, fmt.Errorf("%w: %q", ErrInvalidProcessorReference, reference)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		g.log.Error(ctx, "sdk get failed", err)
		return entities.ProcessorPayment{}, err
	}
	instrument := instrumentFromMethod(resp.PaymentMethodID)
	out, err := normalize(instrument, resp)
	if err != nil {
		return entities.ProcessorPayment{}, err
	}
	return out, nil
}

// buildRequest renders the Mercado Pago create-payment body.
func (g *MercadoPagoGateway) buildRequest(req entities.ProcessorPaymentRequest) map[string]any {
	amount, _ := req.Amount.Float64()
	first, last := splitName(req.Payer.Name)
	payer := map[string]any{
		"email":      req.Payer.Email,
		"first_name": first,
		"last_name":  last,
	}
	if req.Payer.TaxID != "" {
		docType := "CPF"
		if len(req.Payer.TaxID) > 11 {
			docType = "CNPJ"
		}
		payer["identification"] = map[string]any{"type": docType, "number": req.Payer.TaxID}
	}

	body := map[string]any{
		"transaction_amount": amount,
		"description":        req.Description,
		"external_reference": req.OrderID,
		"payer":              payer,
	}
	if g.notificationURL != "" {
		body["notification_url"] = g.notificationURL
	}
	if req.ExpiresAt != nil {
		body["date_of_expiration"] = req.ExpiresAt.Format("2006-01-02T15:04:05.000-07:00")
	}

	switch req.Instrument {
	case entities.InstrumentPix:
		body["payment_method_id"] = paymentMethodPix
	case entities.InstrumentBoleto:
		body["payment_method_id"] = paymentMethodBoleto
	case entities.InstrumentCreditCard:
		body["installments"] = req.Installments
		if req.Card != nil {
			body["token"] = req.Card.Token
			body["payment_method_id"] = req.Card.PaymentMethodID
			if req.Card.IssuerID != "" {
				body["issuer_id"] = req.Card.IssuerID
			}
		}
	}
	return body
}

// mpPayment is the slice of the Mercado Pago payment resource the pipeline reads.
type mpPayment struct {
	ID                 int64      `json:"id"`
	Status             string     `json:"status"`
	StatusDetail       string     `json:"status_detail"`
	PaymentMethodID    string     `json:"payment_method_id"`
	Installments       int        `json:"installments"`
	DateOfExpiration   *time.Time `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
			TicketURL    string `json:"ticket_url"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
	TransactionDetails struct {
		ExternalResourceURL string `json:"external_resource_url"`
		DigitableLine       string `json:"digitable_line"`
		Barcode             struct {
			Content string `json:"content"`
		} `json:"barcode"`
	} `json:"transaction_details"`
	Card struct {
		LastFourDigits string `json:"last_four_digits"`
	} `json:"card"`
}

func normalize(instrument entities.SettlementInstrument, resp any) (entities.ProcessorPayment, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return entities.ProcessorPayment{}, err
	}
	var mp mpPayment
	if err := json.Unmarshal(raw, &mp); err != nil {
		return entities.ProcessorPayment{}, err
	}
	if mp.ID == 0 {
		return entities.ProcessorPayment{}, errors.New("processor answer without payment id")
	}

	out := entities.ProcessorPayment{
		Reference:    strconv.FormatInt(mp.ID, 10),
		Status:       mp.Status,
		StatusDetail: mp.StatusDetail,
	}
	if mp.DateOfExpiration != nil && !mp.DateOfExpiration.IsZero() {
		exp := mp.DateOfExpiration.UTC()
		out.ExpiresAt = &exp
	}

	switch instrument {
	case entities.InstrumentPix:
		td := mp.PointOfInteraction.TransactionData
		out.Payload = entities.PixPayload{QRCode: td.QRCode, QRCodeBase64: td.QRCodeBase64, TicketURL: td.TicketURL}
	case entities.InstrumentBoleto:
		b := entities.BoletoPayload{
			Barcode:       mp.TransactionDetails.Barcode.Content,
			DigitableLine: mp.TransactionDetails.DigitableLine,
			URL:           mp.TransactionDetails.ExternalResourceURL,
		}
		if out.ExpiresAt != nil {
			b.DueDate = *out.ExpiresAt
		}
		out.Payload = b
	case entities.InstrumentCreditCard:
		out.Payload = entities.CardPayload{Brand: mp.PaymentMethodID, LastFour: mp.Card.LastFourDigits, Installments: mp.Installments}
	}
	return out, nil
}

func instrumentFromMethod(methodID string) entities.SettlementInstrument {
	switch strings.ToLower(methodID) {
	case paymentMethodPix:
		return entities.InstrumentPix
	case paymentMethodBoleto, "bolbradesco_bank_slip", "pec":
		return entities.InstrumentBoleto
	}
	return entities.InstrumentCreditCard
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

// mockCreate answers like the processor would: cards are approved at once,
// PIX and boleto stay pending until queried.
func (g *MercadoPagoGateway) mockCreate(ctx context.Context, req entities.ProcessorPaymentRequest) (entities.ProcessorPayment, error) {
	ref := strconv.FormatInt(time.Now().UTC().UnixNano()+g.mockSeq.Add(1), 10)
	out := entities.ProcessorPayment{Reference: ref, Status: entities.ProcessorStatusPending, StatusDetail: "pending_waiting_transfer", ExpiresAt: req.ExpiresAt}

	switch req.Instrument {
	case entities.InstrumentPix:
		out.Payload = entities.PixPayload{
			QRCode:    "00020126580014br.gov.bcb.pix0136" + req.OrderID,
			TicketURL: "https://www.mercadopago.com.br/payments/" + ref + "/ticket",
		}
	case entities.InstrumentBoleto:
		b := entities.BoletoPayload{
			Barcode:       "23793" + ref,
			DigitableLine: "23790.00009 " + ref,
			URL:           "https://www.mercadopago.com.br/payments/" + ref + "/ticket",
		}
		if req.ExpiresAt != nil {
			b.DueDate = *req.ExpiresAt
		}
		out.Payload = b
	case entities.InstrumentCreditCard:
		card := entities.CardPayload{Installments: req.Installments}
		if req.Card != nil {
			card.Brand = req.Card.PaymentMethodID
		}
		out.Payload = card
		out.Status = entities.ProcessorStatusApproved
		out.StatusDetail = "accredited"
	}

	g.mu.Lock()
	g.mocked[ref] = out
	g.mu.Unlock()
	g.log.Info(g.log.WithFields(ctx, map[string]any{"processor_reference": ref, "processor_status": out.Status}), "mock create success")
	return out, nil
}

func (g *MercadoPagoGateway) mockGet(ctx context.Context, reference string) (entities.ProcessorPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.mocked[reference]
	if !ok {
		return entities.ProcessorPayment{}, fmt.Errorf("%w: %q", ErrInvalidProcessorReference, reference)
	}
	p.Status = entities.ProcessorStatusApproved
	p.StatusDetail = "accredited"
	g.mocked[reference] = p
	g.log.Info(ctx, "mock payment settled")
	return p, nil
}
