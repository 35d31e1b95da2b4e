package repository

import (
	"context"
	"sort"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

const (
	invoicesEnrollmentIndex = "enrollment_id-index"
	invoicesStatusIndex     = "status-updated_at-index"
)

type fiscalInvoiceItem struct {
	ID                 string `dynamodbav:"id"`
	EnrollmentID       string `dynamodbav:"enrollment_id"`
	OrderID            string `dynamodbav:"order_id"`
	Sequence           int    `dynamodbav:"sequence"`
	ReissueOf          string `dynamodbav:"reissue_of,omitempty"`
	Mode               string `dynamodbav:"mode"`
	Status             string `dynamodbav:"status"`
	ExternalReference  string `dynamodbav:"external_reference,omitempty"`
	AuthorizationCode  string `dynamodbav:"authorization_code,omitempty"`
	RejectionReason    string `dynamodbav:"rejection_reason,omitempty"`
	Attempts           int    `dynamodbav:"attempts"`
	LastError          string `dynamodbav:"last_error,omitempty"`
	PurchaserTaxID     string `dynamodbav:"purchaser_tax_id"`
	PurchaserName      string `dynamodbav:"purchaser_name,omitempty"`
	PurchaserEmail     string `dynamodbav:"purchaser_email,omitempty"`
	ServiceDescription string `dynamodbav:"service_description"`
	Amount             string `dynamodbav:"amount"`
	ServiceCode        string `dynamodbav:"service_code,omitempty"`
	MunicipalityCode   string `dynamodbav:"municipality_code,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
	SubmittedAt        string `dynamodbav:"submitted_at,omitempty"`
	LastCheckedAt      string `dynamodbav:"last_checked_at,omitempty"`
	UpdatedAt          string `dynamodbav:"updated_at"`
}

// FiscalInvoiceDynamoRepository persists FiscalInvoice entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: enrollment_id-index (PK: enrollment_id)
//   - GSI: status-updated_at-index (PK: status, SK: updated_at)
type FiscalInvoiceDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IFiscalInvoiceRepository = (*FiscalInvoiceDynamoRepository)(nil)

func NewFiscalInvoiceDynamoRepository(ddb dynamoAPI, tableName string) *FiscalInvoiceDynamoRepository {
	return &FiscalInvoiceDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *FiscalInvoiceDynamoRepository) Create(ctx context.Context, inv entities.FiscalInvoice) error {
	return insert(ctx, r.ddb, r.tableName, toFiscalInvoiceItem(inv), "id")
}

func (r *FiscalInvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.FiscalInvoice, error) {
	it, found, err := getItem[fiscalInvoiceItem](ctx, r.ddb, r.tableName, "id", id)
	if err != nil || !found {
		return entities.FiscalInvoice{}, err
	}
	return fromFiscalInvoiceItem(it), nil
}

func (r *FiscalInvoiceDynamoRepository) ListByEnrollmentID(ctx context.Context, enrollmentID string) ([]entities.FiscalInvoice, error) {
	items, err := queryIndex[fiscalInvoiceItem](ctx, r.ddb, r.tableName, indexQuery{
		index:   invoicesEnrollmentIndex,
		keyAttr: "enrollment_id",
		value:   enrollmentID,
	}, 0)
	if err != nil {
		return nil, err
	}
	out := fromFiscalInvoiceItems(items)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *FiscalInvoiceDynamoRepository) ListByStatus(ctx context.Context, status entities.FiscalStatus, limit int32) ([]entities.FiscalInvoice, error) {
	items, err := queryIndex[fiscalInvoiceItem](ctx, r.ddb, r.tableName, indexQuery{
		index:     invoicesStatusIndex,
		keyAttr:   "status",
		value:     string(status),
		rangeAttr: "updated_at",
	}, limit)
	if err != nil {
		return nil, err
	}
	return fromFiscalInvoiceItems(items), nil
}

func (r *FiscalInvoiceDynamoRepository) Update(ctx context.Context, inv entities.FiscalInvoice, expected entities.FiscalStatus) error {
	return replaceIf(ctx, r.ddb, r.tableName, toFiscalInvoiceItem(inv), "status", string(expected))
}

func fromFiscalInvoiceItems(items []fiscalInvoiceItem) []entities.FiscalInvoice {
	out := make([]entities.FiscalInvoice, 0, len(items))
	for _, it := range items {
		out = append(out, fromFiscalInvoiceItem(it))
	}
	return out
}

func toFiscalInvoiceItem(f entities.FiscalInvoice) fiscalInvoiceItem {
	return fiscalInvoiceItem{
		ID:                 f.ID,
		EnrollmentID:       f.EnrollmentID,
		OrderID:            f.OrderID,
		Sequence:           f.Sequence,
		ReissueOf:          f.ReissueOf,
		Mode:               string(f.Mode),
		Status:             string(f.Status),
		ExternalReference:  f.ExternalReference,
		AuthorizationCode:  f.AuthorizationCode,
		RejectionReason:    f.RejectionReason,
		Attempts:           f.Attempts,
		LastError:          f.LastError,
		PurchaserTaxID:     f.PurchaserTaxID,
		PurchaserName:      f.PurchaserName,
		PurchaserEmail:     f.PurchaserEmail,
		ServiceDescription: f.ServiceDescription,
		Amount:             f.Amount.String(),
		ServiceCode:        f.ServiceCode,
		MunicipalityCode:   f.MunicipalityCode,
		CreatedAt:          formatTime(f.CreatedAt),
		SubmittedAt:        formatTimePtr(f.SubmittedAt),
		LastCheckedAt:      formatTimePtr(f.LastCheckedAt),
		UpdatedAt:          formatTime(f.UpdatedAt),
	}
}

func fromFiscalInvoiceItem(it fiscalInvoiceItem) entities.FiscalInvoice {
	return entities.FiscalInvoice{
		ID:                 it.ID,
		EnrollmentID:       it.EnrollmentID,
		OrderID:            it.OrderID,
		Sequence:           it.Sequence,
		ReissueOf:          it.ReissueOf,
		Mode:               entities.FiscalMode(it.Mode),
		Status:             entities.FiscalStatus(it.Status),
		ExternalReference:  it.ExternalReference,
		AuthorizationCode:  it.AuthorizationCode,
		RejectionReason:    it.RejectionReason,
		Attempts:           it.Attempts,
		LastError:          it.LastError,
		PurchaserTaxID:     it.PurchaserTaxID,
		PurchaserName:      it.PurchaserName,
		PurchaserEmail:     it.PurchaserEmail,
		ServiceDescription: it.ServiceDescription,
		Amount:             parseDecimal(it.Amount),
		ServiceCode:        it.ServiceCode,
		MunicipalityCode:   it.MunicipalityCode,
		CreatedAt:          parseTime(it.CreatedAt),
		SubmittedAt:        parseTimePtr(it.SubmittedAt),
		LastCheckedAt:      parseTimePtr(it.LastCheckedAt),
		UpdatedAt:          parseTime(it.UpdatedAt),
	}
}
