// Package fiscal talks to the municipal NFS-e REST API. One client exists per
// fiscal mode; each refuses invoices issued under the other mode.
package fiscal

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"
)

var (
	ErrModeMismatch      = errors.New("invoice mode does not match the authority")
	ErrMissingBaseURL    = errors.New("missing NFS-e base url")
	ErrUnexpectedAnswer  = errors.New("unexpected NFS-e answer")
	ErrMissingReference  = errors.New("invoice has no external reference")
	ErrAuthorityRefusing = errors.New("NFS-e endpoint refused the credentials")
)

type ClientOptions struct {
	Mode        entities.FiscalMode
	BaseURL     string
	APIToken    string
	Certificate *tls.Certificate
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

type NFSeClient struct {
	mode    entities.FiscalMode
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger
}

var _ interfaces.ITaxAuthority = (*NFSeClient)(nil)

func NewNFSeClient(opts ClientOptions) (*NFSeClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingBaseURL, opts.Mode)
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid NFS-e base url: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	hc := opts.HTTPClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.Certificate != nil {
			transport.TLSClientConfig = &tls.Config{
				Certificates: []tls.Certificate{*opts.Certificate},
				MinVersion:   tls.VersionTLS12,
			}
		}
		// Per-call deadlines come from the caller's context.
		hc = &http.Client{Transport: transport}
	}
	return &NFSeClient{
		mode:    opts.Mode,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.APIToken,
		http:    hc,
		log:     opts.Logger,
	}, nil
}

// NewAuthorities builds both environments from configuration. The production
// client is only built when a certificate or token is configured for it.
func NewAuthorities(cfg config.FiscalConfig, log *logger.Logger) ([]interfaces.ITaxAuthority, error) {
	var cert *tls.Certificate
	if cfg.CertPath != "" {
		c, err := LoadCertificate(cfg.CertPath, cfg.CertPassword)
		if err != nil {
			return nil, err
		}
		if err := checkValidity(c.Leaf, time.Now()); err != nil {
			return nil, err
		}
		cert = &c
	}

	homolog, err := NewNFSeClient(ClientOptions{Mode: entities.FiscalModeHomologation, BaseURL: cfg.HomologationURL, APIToken: cfg.APIToken, Certificate: cert, Logger: log})
	if err != nil {
		return nil, err
	}
	out := []interfaces.ITaxAuthority{homolog}
	if cert == nil && cfg.APIToken == "" {
		return out, nil
	}
	prod, err := NewNFSeClient(ClientOptions{Mode: entities.FiscalModeProduction, BaseURL: cfg.ProductionURL, APIToken: cfg.APIToken, Certificate: cert, Logger: log})
	if err != nil {
		return nil, err
	}
	return append(out, prod), nil
}

func (c *NFSeClient) Mode() entities.FiscalMode { return c.mode }

type nfseRequest struct {
	RPSNumber   string      `json:"rps_number"`
	Environment string      `json:"environment"`
	Customer    nfseTaker   `json:"tomador"`
	Service     nfseService `json:"servico"`
}

type nfseTaker struct {
	Document string `json:"cpf_cnpj"`
	Name     string `json:"razao_social,omitempty"`
	Email    string `json:"email,omitempty"`
}

type nfseService struct {
	Description      string `json:"discriminacao"`
	Amount           string `json:"valor_servicos"`
	ServiceCode      string `json:"item_lista_servico,omitempty"`
	MunicipalityCode string `json:"codigo_municipio,omitempty"`
}

type nfseResponse struct {
	Reference         string `json:"ref"`
	Status            string `json:"status"`
	AuthorizationCode string `json:"codigo_verificacao"`
	Number            string `json:"numero"`
	Message           string `json:"mensagem"`
	Errors            []struct {
		Code    string `json:"codigo"`
		Message string `json:"mensagem"`
	} `json:"erros"`
}

func (c *NFSeClient) Submit(ctx context.Context, inv entities.FiscalInvoice) (entities.TaxAuthorityResponse, error) {
	if err := c.checkMode(inv); err != nil {
		return entities.TaxAuthorityResponse{}, err
	}
	body, err := json.Marshal(nfseRequest{
		RPSNumber:   inv.ID,
		Environment: string(c.mode),
		Customer:    nfseTaker{Document: inv.PurchaserTaxID, Name: inv.PurchaserName, Email: inv.PurchaserEmail},
		Service: nfseService{
			Description:      inv.ServiceDescription,
			Amount:           inv.Amount.StringFixed(2),
			ServiceCode:      inv.ServiceCode,
			MunicipalityCode: inv.MunicipalityCode,
		},
	})
	if err != nil {
		return entities.TaxAuthorityResponse{}, err
	}
	ctx = c.log.WithFields(ctx, map[string]any{"component": "fiscal.nfse", "fiscal_mode": string(c.mode), "invoice_id": inv.ID})
	return c.do(ctx, http.MethodPost, c.baseURL+"/nfse", body)
}

func (c *NFSeClient) Status(ctx context.Context, inv entities.FiscalInvoice) (entities.TaxAuthorityResponse, error) {
	if err := c.checkMode(inv); err != nil {
		return entities.TaxAuthorityResponse{}, err
	}
	if inv.ExternalReference == "" {
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindPreconditionFailed, ErrMissingReference)
	}
	ctx = c.log.WithFields(ctx, map[string]any{"component": "fiscal.nfse", "fiscal_mode": string(c.mode), "invoice_id": inv.ID})
	return c.do(ctx, http.MethodGet, c.baseURL+"/nfse/"+url.PathEscape(inv.ExternalReference), nil)
}

func (c *NFSeClient) checkMode(inv entities.FiscalInvoice) error {
	if inv.Mode != c.mode {
		return entities.NewFiscalError(entities.ErrorKindPreconditionFailed,
			fmt.Errorf("%w: invoice %s is %s, authority is %s", ErrModeMismatch, inv.ID, inv.Mode, c.mode))
	}
	return nil
}

func (c *NFSeClient) do(ctx context.Context, method, endpoint string, body []byte) (entities.TaxAuthorityResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return entities.TaxAuthorityResponse{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(ctx, "NFS-e request failed", err)
		return entities.TaxAuthorityResponse{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entities.TaxAuthorityResponse{}, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindUnreachable,
			fmt.Errorf("%w: status %d", ErrAuthorityRefusing, resp.StatusCode))
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindTimeout,
			fmt.Errorf("NFS-e endpoint timed out: status %d", resp.StatusCode))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindUnreachable,
			fmt.Errorf("NFS-e endpoint unavailable: status %d", resp.StatusCode))
	}

	var parsed nfseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindUnreachable,
			fmt.Errorf("%w: status %d: %v", ErrUnexpectedAnswer, resp.StatusCode, err))
	}

	// 4xx with a body is a definitive refusal of the document.
	if resp.StatusCode >= 400 {
		c.log.Warn(c.log.WithField(ctx, "http_status", resp.StatusCode), "NFS-e rejected the document")
		return entities.TaxAuthorityResponse{Reference: parsed.Reference, Verdict: entities.VerdictRejected, RejectionReason: parsed.reason()}, nil
	}

	out := entities.TaxAuthorityResponse{Reference: parsed.Reference}
	switch strings.ToLower(parsed.Status) {
	case "autorizado", "authorized":
		out.Verdict = entities.VerdictAuthorized
		out.AuthorizationCode = parsed.AuthorizationCode
		if out.AuthorizationCode == "" {
			out.AuthorizationCode = parsed.Number
		}
	case "erro_autorizacao", "rejected", "cancelado":
		out.Verdict = entities.VerdictRejected
		out.RejectionReason = parsed.reason()
	case "processando_autorizacao", "processing", "":
		out.Verdict = entities.VerdictProcessing
	default:
		return entities.TaxAuthorityResponse{}, entities.NewFiscalError(entities.ErrorKindUnreachable,
			fmt.Errorf("%w: status %q", ErrUnexpectedAnswer, parsed.Status))
	}
	c.log.Info(c.log.WithFields(ctx, map[string]any{"external_reference": out.Reference, "verdict": string(out.Verdict)}), "NFS-e answered")
	return out, nil
}

func (r nfseResponse) reason() string {
	if len(r.Errors) == 0 {
		return r.Message
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, strings.TrimSpace(e.Code+" "+e.Message))
	}
	return strings.Join(parts, "; ")
}
