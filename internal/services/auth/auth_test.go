package auth

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

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// MockUserRepository реализует интерфейс auth.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockHasher реализует интерфейс auth.Hasher
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

// MockNotifier реализует интерфейс auth.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(msg models.MemberNotification) error {
	args := m.Called(msg)
	return args.Error(0)
}

// MockJWTMaker реализует интерфейс jwt.Maker
type MockJWTMaker struct {
	mock.Mock
}

func (m *MockJWTMaker) GenerateToken(dni, email string, roles []string) (string, error) {
	args := m.Called(dni, email, roles)
	return args.String(0), args.Error(1)
}

func (m *MockJWTMaker) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func validRegisterRequest() models.DummyRegister {
	return models.DummyRegister{
		Dni:       "12345678Z",
		Email:     "candidato@club.es",
		Password:  "super-secret",
		Name:      "Maria",
		Surnames:  "Garcia Lopez",
		BirthDate: "20-05-1990",
		Gender:    "F",
		Kind:      models.KindSocioNumero,
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		req       models.DummyRegister
		setupMock func(*MockUserRepository, *MockHasher, *MockNotifier)
		wantErr   error
	}{
		{
			name: "successful registration",
			req:  validRegisterRequest(),
			setupMock: func(repo *MockUserRepository, hasher *MockHasher, notifier *MockNotifier) {
				hasher.On("Hash", "super-secret").Return("hashed", nil).Once()
				repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Dni == "12345678Z" &&
						u.PasswordHash == "hashed" &&
						u.Enabled &&
						len(u.Roles) == 1 &&
						u.Roles[0] == models.RoleCandidatoSocio &&
						u.BirthDate.Equal(time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC))
				})).Return(nil).Once()
				notifier.On("Notify", mock.MatchedBy(func(msg models.MemberNotification) bool {
					return msg.Kind == models.NotificationWelcome && msg.Email == "candidato@club.es"
				})).Return(nil).Once()
			},
		},
		{
			name: "invalid birth date format",
			req: func() models.DummyRegister {
				r := validRegisterRequest()
				r.BirthDate = "1990-05-20"
				return r
			}(),
			setupMock: func(_ *MockUserRepository, _ *MockHasher, _ *MockNotifier) {},
			wantErr:   models.ErrValidation,
		},
		{
			name: "duplicate dni",
			req:  validRegisterRequest(),
			setupMock: func(repo *MockUserRepository, hasher *MockHasher, _ *MockNotifier) {
				hasher.On("Hash", "super-secret").Return("hashed", nil).Once()
				repo.On("RegisterUser", mock.Anything, mock.Anything).
					Return(models.ErrAlreadyExists).Once()
			},
			wantErr: models.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			hasher := new(MockHasher)
			notifier := new(MockNotifier)
			maker := new(MockJWTMaker)
			tt.setupMock(repo, hasher, notifier)

			service := New(repo, hasher, notifier, maker, newNoopLogger())
			user, err := service.Register(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "12345678Z", user.Dni)
				assert.True(t, user.Enabled)
			}
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_Register_NotifyFailureDoesNotFail(t *testing.T) {
	repo := new(MockUserRepository)
	hasher := new(MockHasher)
	notifier := new(MockNotifier)
	maker := new(MockJWTMaker)

	hasher.On("Hash", mock.Anything).Return("hashed", nil).Once()
	repo.On("RegisterUser", mock.Anything, mock.Anything).Return(nil).Once()
	notifier.On("Notify", mock.Anything).Return(errors.New("rabbitmq down")).Once()

	service := New(repo, hasher, notifier, maker, newNoopLogger())
	user, err := service.Register(context.Background(), validRegisterRequest())

	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestService_Login(t *testing.T) {
	storedUser := &models.User{
		Dni:          "12345678Z",
		Email:        "socio@club.es",
		PasswordHash: "stored-hash",
		Enabled:      true,
		Roles:        []string{models.RoleSocio},
	}

	tests := []struct {
		name      string
		setupMock func(*MockUserRepository, *MockHasher, *MockJWTMaker)
		wantErr   string
	}{
		{
			name: "successful login",
			setupMock: func(repo *MockUserRepository, hasher *MockHasher, maker *MockJWTMaker) {
				repo.On("GetUserByEmail", mock.Anything, "socio@club.es").Return(storedUser, nil).Once()
				hasher.On("Compare", "stored-hash", "super-secret").Return(nil).Once()
				maker.On("GenerateToken", "12345678Z", "socio@club.es", []string{models.RoleSocio}).
					Return("signed-token", nil).Once()
			},
		},
		{
			name: "unknown email",
			setupMock: func(repo *MockUserRepository, _ *MockHasher, _ *MockJWTMaker) {
				repo.On("GetUserByEmail", mock.Anything, "socio@club.es").
					Return(nil, models.ErrNotFound).Once()
			},
			wantErr: "entity not found",
		},
		{
			name: "wrong password",
			setupMock: func(repo *MockUserRepository, hasher *MockHasher, _ *MockJWTMaker) {
				repo.On("GetUserByEmail", mock.Anything, "socio@club.es").Return(storedUser, nil).Once()
				hasher.On("Compare", "stored-hash", "super-secret").
					Return(errors.New("mismatch")).Once()
			},
			wantErr: "invalid credentials",
		},
		{
			name: "disabled account",
			setupMock: func(repo *MockUserRepository, _ *MockHasher, _ *MockJWTMaker) {
				disabled := *storedUser
				disabled.Enabled = false
				repo.On("GetUserByEmail", mock.Anything, "socio@club.es").Return(&disabled, nil).Once()
			},
			wantErr: "account disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			hasher := new(MockHasher)
			maker := new(MockJWTMaker)
			tt.setupMock(repo, hasher, maker)

			service := New(repo, hasher, new(MockNotifier), maker, newNoopLogger())
			token, user, err := service.Login(context.Background(), "socio@club.es", "super-secret")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "signed-token", token)
				assert.Equal(t, "12345678Z", user.Dni)
			}
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	maker := new(MockJWTMaker)
	claims := &jwt.CustomClaims{Dni: "12345678Z", Email: "socio@club.es", Roles: []string{models.RoleSocio}}
	maker.On("ParseToken", "valid-token").Return(claims, nil).Once()
	maker.On("ParseToken", "broken-token").Return(nil, errors.New("invalid token")).Once()

	service := New(new(MockUserRepository), new(MockHasher), new(MockNotifier), maker, newNoopLogger())

	got, err := service.ValidateToken(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "12345678Z", got.Dni)

	got, err = service.ValidateToken(context.Background(), "broken-token")
	require.Error(t, err)
	assert.Nil(t, got)
	maker.AssertExpectations(t)
}
