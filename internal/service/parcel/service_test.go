package parcel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/dto"
	"github.com/Additional-Code/paketku/internal/entity"
	repo "github.com/Additional-Code/paketku/internal/repository/parcel"
	"github.com/Additional-Code/paketku/internal/view"
	"github.com/Additional-Code/paketku/pkg/errorbank"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, pkg *entity.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*entity.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Package), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*entity.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Package), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, pkg *entity.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type recordingNotifier struct {
	paths []string
}

func (n *recordingNotifier) InvalidatePath(_ context.Context, path string) {
	n.paths = append(n.paths, path)
}

func newTestService(repository Repository, notifiers ...view.Notifier) *Service {
	return NewService(Params{
		Repository: repository,
		Config:     config.Config{},
		Notifiers:  notifiers,
	})
}

func validCreateRequest() dto.CreatePackageRequest {
	return dto.CreatePackageRequest{
		PackageName:    "Sepatu lari",
		SenderName:     "Toko Sport Jaya",
		Courier:        "JNE",
		TrackingNumber: "JNE0012345678",
		RecipientPhone: "081234567890",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("missing required fields fails validation", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		pkg, err := svc.Create(ctx, dto.CreatePackageRequest{Courier: "JNE"})
		require.Error(t, err)
		assert.Nil(t, pkg)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("cod without amount fails validation", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		req := validCreateRequest()
		req.IsCod = true

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})

	t.Run("cod with non-positive amount fails validation", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		req := validCreateRequest()
		req.IsCod = true
		amount := 0.0
		req.CodAmount = &amount

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})

	t.Run("non-cod without amount succeeds", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("Create", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		svc := newTestService(repository)

		pkg, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, pkg.DeliveryStatus)
		assert.Nil(t, pkg.CodAmount)
		assert.Nil(t, pkg.ReceivedAt)
		assert.False(t, pkg.CreatedAt.IsZero())
		repository.AssertExpectations(t)
	})

	t.Run("stray cod amount is dropped for non-cod packages", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("Create", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		svc := newTestService(repository)

		req := validCreateRequest()
		amount := 25000.0
		req.CodAmount = &amount

		pkg, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, pkg.CodAmount)
	})

	t.Run("mutation notifies the view layer", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("Create", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		notifier := &recordingNotifier{}
		svc := newTestService(repository, notifier)

		_, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, []string{view.PathPublic, view.PathAdmin}, notifier.paths)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	statusReceived := string(entity.StatusReceived)
	statusWaiting := string(entity.StatusWaiting)

	waitingPkg := func() *entity.Package {
		return &entity.Package{
			ID:             7,
			PackageName:    "Rice cooker",
			SenderName:     "Elektronik Murah",
			Courier:        "J&T Express",
			TrackingNumber: "JT9876543210",
			RecipientPhone: "081234567890",
			DeliveryStatus: entity.StatusWaiting,
			CreatedAt:      time.Now().UTC().Add(-time.Hour),
		}
	}

	t.Run("unknown id returns not found", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(99)).Return(nil, repo.ErrNotFound)
		svc := newTestService(repository)

		_, err := svc.Update(ctx, 99, dto.UpdatePackageRequest{})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("setting status to received stamps receivedAt", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(7)).Return(waitingPkg(), nil)
		repository.On("Update", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		svc := newTestService(repository)

		receiver := "Budi"
		pkg, err := svc.Update(ctx, 7, dto.UpdatePackageRequest{
			DeliveryStatus: &statusReceived,
			ReceiverName:   &receiver,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusReceived, pkg.DeliveryStatus)
		assert.Equal(t, "Budi", pkg.ReceiverName)
		require.NotNil(t, pkg.ReceivedAt)
		assert.WithinDuration(t, time.Now().UTC(), *pkg.ReceivedAt, time.Minute)
	})

	t.Run("setting status back to waiting clears receipt fields", func(t *testing.T) {
		received := waitingPkg()
		received.DeliveryStatus = entity.StatusReceived
		received.ReceiverName = "Budi"
		now := time.Now().UTC()
		received.ReceivedAt = &now

		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(7)).Return(received, nil)
		repository.On("Update", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		svc := newTestService(repository)

		stillBudi := "Ani"
		pkg, err := svc.Update(ctx, 7, dto.UpdatePackageRequest{
			DeliveryStatus: &statusWaiting,
			ReceiverName:   &stillBudi,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, pkg.DeliveryStatus)
		assert.Nil(t, pkg.ReceivedAt)
		assert.Empty(t, pkg.ReceiverName)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(7)).Return(waitingPkg(), nil)
		svc := newTestService(repository)

		bogus := "lost"
		_, err := svc.Update(ctx, 7, dto.UpdatePackageRequest{DeliveryStatus: &bogus})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("switching to cod requires an amount", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(7)).Return(waitingPkg(), nil)
		svc := newTestService(repository)

		isCod := true
		_, err := svc.Update(ctx, 7, dto.UpdatePackageRequest{IsCod: &isCod})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})
}

func TestService_MarkReceived(t *testing.T) {
	ctx := context.Background()

	t.Run("empty receiver name fails validation", func(t *testing.T) {
		svc := newTestService(new(MockRepository))

		_, err := svc.MarkReceived(ctx, 1, "   ")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("waiting package becomes received", func(t *testing.T) {
		waiting := &entity.Package{ID: 3, DeliveryStatus: entity.StatusWaiting}
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(3)).Return(waiting, nil)
		repository.On("Update", mock.Anything, mock.AnythingOfType("*entity.Package")).Return(nil)
		notifier := &recordingNotifier{}
		svc := newTestService(repository, notifier)

		pkg, err := svc.MarkReceived(ctx, 3, "Budi")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusReceived, pkg.DeliveryStatus)
		assert.Equal(t, "Budi", pkg.ReceiverName)
		require.NotNil(t, pkg.ReceivedAt)
		assert.Len(t, notifier.paths, 2)
	})

	t.Run("already received is a conflict", func(t *testing.T) {
		received := &entity.Package{ID: 4, DeliveryStatus: entity.StatusReceived}
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(4)).Return(received, nil)
		svc := newTestService(repository)

		_, err := svc.MarkReceived(ctx, 4, "Budi")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id returns not found", func(t *testing.T) {
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(42)).Return(nil, repo.ErrNotFound)
		svc := newTestService(repository)

		err := svc.Delete(ctx, 42)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("delete notifies views", func(t *testing.T) {
		pkg := &entity.Package{ID: 42}
		repository := new(MockRepository)
		repository.On("GetByID", mock.Anything, int64(42)).Return(pkg, nil)
		repository.On("Delete", mock.Anything, int64(42)).Return(nil)
		notifier := &recordingNotifier{}
		svc := newTestService(repository, notifier)

		require.NoError(t, svc.Delete(ctx, 42))
		assert.Equal(t, []string{view.PathPublic, view.PathAdmin}, notifier.paths)
		repository.AssertExpectations(t)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	fixtures := []*entity.Package{
		{ID: 1, SenderName: "Toko Sport Jaya", Courier: "JNE", TrackingNumber: "JNE001", DeliveryStatus: entity.StatusWaiting, IsCod: true, CreatedAt: t1},
		{ID: 2, SenderName: "Elektronik Murah", Courier: "J&T Express", TrackingNumber: "JT002", DeliveryStatus: entity.StatusWaiting, CreatedAt: t1.Add(time.Hour)},
		{ID: 3, SenderName: "Gramedia", Courier: "SiCepat", TrackingNumber: "SC003", DeliveryStatus: entity.StatusReceived, CreatedAt: t1.Add(2 * time.Hour)},
	}

	newListService := func() *Service {
		repository := new(MockRepository)
		repository.On("List", mock.Anything).Return(fixtures, nil)
		return newTestService(repository)
	}

	t.Run("unfiltered list applies the ordering policy", func(t *testing.T) {
		svc := newListService()

		pkgs, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, pkgs, 3)
		assert.Equal(t, int64(1), pkgs[0].ID)
		assert.Equal(t, int64(2), pkgs[1].ID)
		assert.Equal(t, int64(3), pkgs[2].ID)
	})

	t.Run("query filters by substring and keeps relative order", func(t *testing.T) {
		svc := newListService()

		all, err := svc.List(ctx, "")
		require.NoError(t, err)

		filtered, err := svc.List(ctx, "J")
		require.NoError(t, err)

		// "J" matches JNE001/JNE and JT002/J&T but not SiCepat/SC003/Gramedia.
		require.Len(t, filtered, 2)
		assert.Equal(t, all[0].ID, filtered[0].ID)
		assert.Equal(t, all[1].ID, filtered[1].ID)
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		svc := newListService()

		filtered, err := svc.List(ctx, "jne")
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})

	t.Run("query matches sender name", func(t *testing.T) {
		svc := newListService()

		filtered, err := svc.List(ctx, "Gramedia")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, int64(3), filtered[0].ID)
	})
}
