package database

import (
	"context"
	"testing"

	checkoutconfig "checkout_service/internal/config"
)

func TestNewAWSConfig(t *testing.T) {
	t.Run("uses static credentials when configured", func(t *testing.T) {
		cfg, err := NewAWSConfig(context.Background(), checkoutconfig.DynamoDBConfig{
			Region:          "sa-east-1",
			AccessKeyID:     "local",
			SecretAccessKey: "local",
		})
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if cfg.Region != "sa-east-1" {
			t.Fatalf("expected region sa-east-1, got %s", cfg.Region)
		}
		creds, err := cfg.Credentials.Retrieve(context.Background())
		if err != nil || creds.AccessKeyID != "local" {
			t.Fatalf("expected static credentials, got %+v err=%v", creds, err)
		}
	})

	t.Run("endpoint override builds a client", func(t *testing.T) {
		client, err := ConnectDynamoDB(context.Background(), checkoutconfig.DynamoDBConfig{
			Region:          "us-east-1",
			AccessKeyID:     "local",
			SecretAccessKey: "local",
			Endpoint:        "http://localhost:8000",
		})
		if err != nil || client == nil {
			t.Fatalf("expected client, got %v err=%v", client, err)
		}
		if got := client.Options().BaseEndpoint; got == nil || *got != "http://localhost:8000" {
			t.Fatalf("expected base endpoint override, got %v", got)
		}
	})
}
