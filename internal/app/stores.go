package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"checkout_service/internal/adapter/persistence/memory"
	"checkout_service/internal/adapter/persistence/repository"
	"checkout_service/internal/config"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/infrastructure/database"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"
)

type stores struct {
	intents     interfaces.IPaymentIntentRepository
	ledger      interfaces.ILedgerRepository
	enrollments interfaces.IEnrollmentRepository
	invoices    interfaces.IFiscalInvoiceRepository
	purchases   interfaces.IPurchaseRepository
	offerings   interfaces.IOfferingRepository
	coupons     interfaces.ICouponRepository
}

func newStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (stores, error) {
	if cfg.Storage.InMemory() {
		log.Warn(ctx, "in-memory storage selected; records are lost on restart")
		catalog := memory.NewCatalogRepository()
		if cfg.Storage.CatalogSeedFile != "" {
			n, err := seedCatalog(catalog, cfg.Storage.CatalogSeedFile)
			if err != nil {
				return stores{}, err
			}
			log.Info(log.WithField(ctx, "items", n), "catalog seeded")
		}
		return stores{
			intents:     memory.NewPaymentIntentRepository(),
			ledger:      memory.NewLedgerRepository(),
			enrollments: memory.NewEnrollmentRepository(),
			invoices:    memory.NewFiscalInvoiceRepository(),
			purchases:   memory.NewPurchaseRepository(),
			offerings:   catalog.Offerings(),
			coupons:     catalog.Coupons(),
		}, nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
	if err != nil {
		return stores{}, fmt.Errorf("connecting dynamodb: %w", err)
	}
	t := cfg.DynamoDB
	return stores{
		intents:     repository.NewPaymentIntentDynamoRepository(ddb, t.PaymentIntentsTable),
		ledger:      repository.NewLedgerDynamoRepository(ddb, t.LedgerEntriesTable),
		enrollments: repository.NewEnrollmentDynamoRepository(ddb, t.EnrollmentsTable),
		invoices:    repository.NewFiscalInvoiceDynamoRepository(ddb, t.FiscalInvoicesTable),
		purchases:   repository.NewPurchaseDynamoRepository(ddb, t.PurchasesTable),
		offerings:   repository.NewOfferingDynamoRepository(ddb, t.OfferingsTable),
		coupons:     repository.NewCouponDynamoRepository(ddb, t.CouponsTable),
	}, nil
}

type catalogSeed struct {
	Offerings []entities.Offering `json:"offerings"`
	Coupons   []entities.Coupon   `json:"coupons"`
}

func seedCatalog(catalog *memory.CatalogRepository, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading catalog seed: %w", err)
	}
	var seed catalogSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parsing catalog seed %s: %w", path, err)
	}
	for _, o := range seed.Offerings {
		catalog.PutOffering(o)
	}
	for _, c := range seed.Coupons {
		catalog.PutCoupon(c)
	}
	return len(seed.Offerings) + len(seed.Coupons), nil
}

func newLocalIdempotencyStore() interfaces.IIdempotencyStore {
	return memory.NewIdempotencyStore()
}
