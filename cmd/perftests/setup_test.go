package perftests

import (
	"auction-site/internal/repository"
	"context"
	"fmt"
	"testing"
	"time"

	model "auction-site/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fixture is a migrated in-memory store seeded with users and open auctions
type fixture struct {
	store    *repository.GormStore
	users    []uint
	auctions []uint
}

func newFixture(b *testing.B, numUsers, numAuctions int) *fixture {
	b.Helper()
	ctx := context.Background()

	store, err := repository.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), "silent")
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	b.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(ctx); err != nil {
		b.Fatalf("failed to migrate: %v", err)
	}

	f := &fixture{store: store}
	for i := 0; i < numUsers; i++ {
		u := &model.User{
			Username: fmt.Sprintf("user_%d", i),
			Password: "pw",
			Email:    fmt.Sprintf("user_%d@example.com", i),
			Balance:  decimal.NewFromInt(100),
		}
		if err := store.Create(ctx, u); err != nil {
			b.Fatalf("failed to seed user: %v", err)
		}
		f.users = append(f.users, u.ID)
	}

	now := time.Now().UTC()
	for i := 0; i < numAuctions; i++ {
		f.auctions = append(f.auctions, f.addAuction(b, now, i))
	}
	return f
}

func (f *fixture) addAuction(b *testing.B, now time.Time, i int) uint {
	b.Helper()
	ctx := context.Background()

	p := &model.Product{
		Title:    fmt.Sprintf("product_%d", i),
		Image:    fmt.Sprintf("product_%d.png", i),
		Quantity: 1,
		Category: model.Categories[i%len(model.Categories)],
	}
	if err := f.store.Create(ctx, p); err != nil {
		b.Fatalf("failed to seed product: %v", err)
	}
	a := &model.Auction{ProductID: p.ID, TimeStarting: now, TimeEnding: now.Add(24 * time.Hour)}
	if err := f.store.Create(ctx, a); err != nil {
		b.Fatalf("failed to seed auction: %v", err)
	}
	return a.ID
}
