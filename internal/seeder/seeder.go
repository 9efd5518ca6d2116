package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/paketku/internal/database"
	"github.com/Additional-Code/paketku/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Packages seeds example packages if they are missing.
func (s *Seeder) Packages(ctx context.Context) error {
	now := time.Now().UTC()
	codAmount := 150000.0
	receivedAt := now.Add(-24 * time.Hour)

	samples := []entity.Package{
		{
			PackageName:    "Sepatu lari",
			SenderName:     "Toko Sport Jaya",
			Courier:        "JNE",
			TrackingNumber: "JNE0012345678",
			RecipientPhone: "081234567890",
			IsCod:          false,
			DeliveryStatus: entity.StatusWaiting,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			PackageName:    "Rice cooker",
			SenderName:     "Elektronik Murah",
			SenderAddress:  "Jakarta Barat",
			Courier:        "J&T Express",
			TrackingNumber: "JT9876543210",
			RecipientPhone: "081234567890",
			IsCod:          true,
			CodAmount:      &codAmount,
			DeliveryStatus: entity.StatusWaiting,
			CreatedAt:      now.Add(-2 * time.Hour),
			UpdatedAt:      now.Add(-2 * time.Hour),
		},
		{
			PackageName:    "Buku resep",
			SenderName:     "Gramedia",
			Courier:        "SiCepat",
			TrackingNumber: "SC1122334455",
			RecipientPhone: "081234567890",
			IsCod:          false,
			DeliveryStatus: entity.StatusReceived,
			ReceiverName:   "Budi",
			ReceivedAt:     &receivedAt,
			CreatedAt:      now.Add(-48 * time.Hour),
			UpdatedAt:      receivedAt,
		},
	}

	for _, sample := range samples {
		pkg := sample
		_, err := s.db.NewInsert().Model(&pkg).
			On("CONFLICT (tracking_number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded packages", zap.Int("count", len(samples)))
	}
	return nil
}
