//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
)

func TestPurchaseRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewPurchaseRepo(testPool)
	cleanup(t)

	purchase, err := model.NewPurchase(uuid.NewString(), "user-1", "art-1", "pi_test_1", 500, model.PurchaseKindSingle)
	if err != nil {
		t.Fatalf("model.NewPurchase() failed: %v", err)
	}

	t.Run("should insert and read back a purchase", func(t *testing.T) {
		inserted, err := repo.InsertIgnoreDuplicate(ctx, repository.NoTX, purchase)
		if err != nil {
			t.Fatalf("Failed to insert purchase: %v", err)
		}
		if !inserted {
			t.Fatal("Expected the first insert to report a new row")
		}

		found, err := repo.FindByProviderPaymentID(ctx, repository.NoTX, "pi_test_1")
		if err != nil {
			t.Fatalf("Failed to find purchase: %v", err)
		}
		if found.UserID != "user-1" || found.ArtworkID != "art-1" || found.AmountPence != 500 {
			t.Errorf("Mismatch in retrieved purchase data: %+v", found)
		}
	})

	t.Run("should ignore a duplicate provider payment id", func(t *testing.T) {
		dup, _ := model.NewPurchase(uuid.NewString(), "user-1", "art-1", "pi_test_1", 500, model.PurchaseKindSingle)
		inserted, err := repo.InsertIgnoreDuplicate(ctx, repository.NoTX, dup)
		if err != nil {
			t.Fatalf("Duplicate insert must not error: %v", err)
		}
		if inserted {
			t.Error("Expected the duplicate insert to report no new row")
		}

		records, err := repo.ListByUser(ctx, repository.NoTX, "user-1")
		if err != nil {
			t.Fatalf("Failed to list purchases: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("Expected exactly one purchase, got %d", len(records))
		}
	})

	t.Run("should scope listing to the user", func(t *testing.T) {
		other, _ := model.NewPurchase(uuid.NewString(), "user-2", "art-2", "pi_test_2", 750, model.PurchaseKindSingle)
		if _, err := repo.InsertIgnoreDuplicate(ctx, repository.NoTX, other); err != nil {
			t.Fatalf("Failed to insert second purchase: %v", err)
		}

		records, err := repo.ListByUser(ctx, repository.NoTX, "user-2")
		if err != nil {
			t.Fatalf("Failed to list purchases: %v", err)
		}
		if len(records) != 1 || records[0].ProviderPaymentID != "pi_test_2" {
			t.Errorf("Unexpected listing for user-2: %+v", records)
		}
	})

	t.Run("should report not-found for an unknown payment id", func(t *testing.T) {
		_, err := repo.FindByProviderPaymentID(ctx, repository.NoTX, "pi_absent")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})
}
