package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// MockRepository реализует интерфейс member.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByDni(ctx context.Context, dni string) (*models.User, error) {
	args := m.Called(ctx, dni)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, dni, name, surnames, gender string, birthDate time.Time) error {
	args := m.Called(ctx, dni, name, surnames, gender, birthDate)
	return args.Error(0)
}

func (m *MockRepository) UpdateEmail(ctx context.Context, dni, email string) error {
	args := m.Called(ctx, dni, email)
	return args.Error(0)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, dni, passwordHash string) error {
	args := m.Called(ctx, dni, passwordHash)
	return args.Error(0)
}

func (m *MockRepository) UpdateKind(ctx context.Context, dni, kind string) error {
	args := m.Called(ctx, dni, kind)
	return args.Error(0)
}

func (m *MockRepository) SetEnabled(ctx context.Context, dni string, enabled bool) error {
	args := m.Called(ctx, dni, enabled)
	return args.Error(0)
}

func (m *MockRepository) AddRole(ctx context.Context, dni, role string) error {
	args := m.Called(ctx, dni, role)
	return args.Error(0)
}

func (m *MockRepository) RemoveRole(ctx context.Context, dni, role string) error {
	args := m.Called(ctx, dni, role)
	return args.Error(0)
}

func (m *MockRepository) ReplaceRoleAndInsertPayment(ctx context.Context, dni, oldRole, newRole string, p *models.Payment) error {
	args := m.Called(ctx, dni, oldRole, newRole, p)
	return args.Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, dni string) error {
	args := m.Called(ctx, dni)
	return args.Error(0)
}

// MockHasher реализует интерфейс member.Hasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(originalHash, externalPassword string) error {
	args := m.Called(originalHash, externalPassword)
	return args.Error(0)
}

// MockNotifier реализует интерфейс member.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(msg models.MemberNotification) error {
	args := m.Called(msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const testDni = "12345678Z"

func candidate(kind string) *models.User {
	return &models.User{
		Dni:   testDni,
		Email: "candidato@club.es",
		Name:  "Maria",
		Kind:  kind,
		Roles: []string{models.RoleCandidatoSocio},
	}
}

func TestService_AcceptUserAsMember(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantFee    float64
		wantNoFee  bool
		wantErr    bool
		errText    string
	}{
		{
			name:    "SOCIO_NUMERO pays 40",
			user:    candidate(models.KindSocioNumero),
			wantFee: models.MembershipFeeNumero,
		},
		{
			name:    "SOCIO_ASPIRANTE pays 20",
			user:    candidate(models.KindSocioAspirante),
			wantFee: models.MembershipFeeAspirante,
		},
		{
			name:      "SOCIO_HONORARIO pays nothing",
			user:      candidate(models.KindSocioHonorario),
			wantNoFee: true,
		},
		{
			name:      "SOCIO_FAMILIAR pays nothing",
			user:      candidate(models.KindSocioFamiliar),
			wantNoFee: true,
		},
		{
			name: "already accepted member is rejected",
			user: &models.User{
				Dni:   testDni,
				Kind:  models.KindSocioNumero,
				Roles: []string{models.RoleSocio},
			},
			wantErr: true,
			errText: "is not a pending candidate",
		},
		{
			name: "candidate with extra roles is rejected",
			user: &models.User{
				Dni:   testDni,
				Kind:  models.KindSocioNumero,
				Roles: []string{models.RoleCandidatoSocio, models.RoleSocio},
			},
			wantErr: true,
			errText: "is not a pending candidate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			hasher := new(MockHasher)
			notifier := new(MockNotifier)

			repo.On("GetUserByDni", mock.Anything, testDni).Return(tt.user, nil).Once()

			if !tt.wantErr {
				matchFee := mock.MatchedBy(func(p *models.Payment) bool {
					if tt.wantNoFee {
						return p == nil
					}
					return p != nil &&
						p.Amount == tt.wantFee &&
						p.Category == models.PaymentCategoryMembership &&
						p.State == models.PaymentStateUnpaid &&
						p.UserDni == testDni
				})
				repo.On("ReplaceRoleAndInsertPayment", mock.Anything, testDni,
					models.RoleCandidatoSocio, models.RoleSocio, matchFee).Return(nil).Once()
				notifier.On("Notify", mock.MatchedBy(func(msg models.MemberNotification) bool {
					return msg.Kind == models.NotificationAccepted && msg.Email == tt.user.Email
				})).Return(nil).Once()

				accepted := *tt.user
				accepted.Roles = []string{models.RoleSocio}
				repo.On("GetUserByDni", mock.Anything, testDni).Return(&accepted, nil).Once()
			}

			service := New(repo, hasher, notifier, newNoopLogger())
			user, err := service.AcceptUserAsMember(context.Background(), testDni)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidState)
				assert.Contains(t, err.Error(), tt.errText)
				assert.Nil(t, user)
				repo.AssertNotCalled(t, "ReplaceRoleAndInsertPayment")
			} else {
				require.NoError(t, err)
				assert.Equal(t, []string{models.RoleSocio}, user.Roles)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_AcceptUserAsMember_NotifyFailureDoesNotFail(t *testing.T) {
	repo := new(MockRepository)
	hasher := new(MockHasher)
	notifier := new(MockNotifier)

	user := candidate(models.KindSocioNumero)
	repo.On("GetUserByDni", mock.Anything, testDni).Return(user, nil).Once()
	repo.On("ReplaceRoleAndInsertPayment", mock.Anything, testDni,
		models.RoleCandidatoSocio, models.RoleSocio, mock.Anything).Return(nil).Once()
	notifier.On("Notify", mock.Anything).Return(errors.New("rabbitmq down")).Once()

	accepted := *user
	accepted.Roles = []string{models.RoleSocio}
	repo.On("GetUserByDni", mock.Anything, testDni).Return(&accepted, nil).Once()

	service := New(repo, hasher, notifier, newNoopLogger())
	got, err := service.AcceptUserAsMember(context.Background(), testDni)

	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleSocio}, got.Roles)
}

func TestService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockRepository, *MockHasher)
		wantErr   error
	}{
		{
			name: "successful change",
			setupMock: func(repo *MockRepository, hasher *MockHasher) {
				repo.On("GetUserByDni", mock.Anything, testDni).
					Return(&models.User{Dni: testDni, PasswordHash: "old-hash"}, nil).Once()
				hasher.On("Compare", "old-hash", "current-pass").Return(nil).Once()
				hasher.On("Hash", "new-password").Return("new-hash", nil).Once()
				repo.On("UpdatePassword", mock.Anything, testDni, "new-hash").Return(nil).Once()
			},
		},
		{
			name: "wrong current password",
			setupMock: func(repo *MockRepository, hasher *MockHasher) {
				repo.On("GetUserByDni", mock.Anything, testDni).
					Return(&models.User{Dni: testDni, PasswordHash: "old-hash"}, nil).Once()
				hasher.On("Compare", "old-hash", "current-pass").Return(errors.New("mismatch")).Once()
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "unknown user",
			setupMock: func(repo *MockRepository, _ *MockHasher) {
				repo.On("GetUserByDni", mock.Anything, testDni).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			hasher := new(MockHasher)
			notifier := new(MockNotifier)
			tt.setupMock(repo, hasher)

			service := New(repo, hasher, notifier, newNoopLogger())
			err := service.ChangePassword(context.Background(), testDni, "current-pass", "new-password")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
		})
	}
}

func TestService_ChangeKind(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		wantErr bool
	}{
		{name: "socio numero", kind: models.KindSocioNumero},
		{name: "socio aspirante", kind: models.KindSocioAspirante},
		{name: "socio honorario", kind: models.KindSocioHonorario},
		{name: "socio familiar", kind: models.KindSocioFamiliar},
		{name: "unknown kind", kind: "SOCIO_FANTASMA", wantErr: true},
		{name: "empty kind", kind: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if !tt.wantErr {
				repo.On("UpdateKind", mock.Anything, testDni, tt.kind).Return(nil).Once()
			}

			service := New(repo, new(MockHasher), new(MockNotifier), newNoopLogger())
			err := service.ChangeKind(context.Background(), testDni, tt.kind)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrValidation)
				repo.AssertNotCalled(t, "UpdateKind")
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_UpdateProfile_InvalidBirthDate(t *testing.T) {
	repo := new(MockRepository)
	service := New(repo, new(MockHasher), new(MockNotifier), newNoopLogger())

	err := service.UpdateProfile(context.Background(), testDni, models.DummyProfile{
		Name:      "Maria",
		Surnames:  "Garcia Lopez",
		BirthDate: "1990-05-20", // неверный формат, ожидается 02-01-2006
		Gender:    "F",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	repo.AssertNotCalled(t, "UpdateProfile")
}

func TestService_Unsubscribe(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SetEnabled", mock.Anything, testDni, false).Return(nil).Once()

	service := New(repo, new(MockHasher), new(MockNotifier), newNoopLogger())
	err := service.Unsubscribe(context.Background(), testDni)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
