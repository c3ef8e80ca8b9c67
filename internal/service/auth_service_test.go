package service

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
	"github.com/noah-isme/campus-nav-api/internal/repository"
)

func newAuthService(fx campusFixture) *AuthService {
	return NewAuthService(fx.store, nil, nil, AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "campus-nav-api"})
}

func TestAuthServiceLogin(t *testing.T) {
	fx := newCampusFixture(t)
	svc := newAuthService(fx)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Username: "student1", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, fx.student.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fx.student.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "student1", Password: "wrong"})
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "secret1"})
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "student1"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestAuthServiceRegister(t *testing.T) {
	fx := newCampusFixture(t)
	svc := newAuthService(fx)
	ctx := context.Background()

	resp, err := svc.Register(ctx, models.RegisterRequest{Username: "newbie", Password: "hunter22", DisplayName: strPtr("Anita Desai")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotNil(t, resp.User.AvatarInitials)
	assert.Equal(t, "AD", *resp.User.AvatarInitials)

	stored, err := fx.store.GetUserByUsername(ctx, "newbie")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "NEWBIE", Password: "hunter22"})
	assertStatus(t, err, http.StatusConflict)

	_, err = svc.Register(ctx, models.RegisterRequest{Username: "boss", Password: "hunter22", Role: models.RoleAdmin})
	assertStatus(t, err, http.StatusBadRequest)

	login, err := svc.Login(ctx, models.LoginRequest{Username: "newbie", Password: "hunter22"})
	require.NoError(t, err)
	me, err := svc.Me(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "newbie", me.Username)
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	fx := newCampusFixture(t)
	svc := newAuthService(fx)
	other := NewAuthService(fx.store, nil, nil, AuthConfig{AccessTokenSecret: "other-secret", Issuer: "campus-nav-api"})

	resp, err := other.Login(context.Background(), models.LoginRequest{Username: "student1", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assertStatus(t, err, http.StatusUnauthorized)
	_, err = svc.ValidateToken("not-a-token")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "RK", Initials("Rahul Kumar"))
	assert.Equal(t, "P", Initials("priya"))
	assert.Equal(t, "DS", Initials("Dr. Sharma Prakash"))
	assert.Equal(t, "", Initials("   "))
}

func TestAuthServiceConcurrentRegisterCreatesOneAccount(t *testing.T) {
	fx := newCampusFixture(t)
	svc := newAuthService(fx)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, models.RegisterRequest{Username: "dupuser", Password: "secret1"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertStatus(t, err, http.StatusConflict)
	}
	assert.Equal(t, 1, succeeded)

	users, err := fx.store.ListUsers(ctx)
	require.NoError(t, err)
	named := 0
	for _, u := range users {
		if strings.EqualFold(u.Username, "dupuser") {
			named++
		}
	}
	assert.Equal(t, 1, named)
}

// racingUserStore hides existing users from the lookup so the insert is the
// only place a duplicate can be caught.
type racingUserStore struct {
	*repository.MemoryStore
}

func (racingUserStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}

func TestAuthServiceRegisterMapsStoreDuplicateToConflict(t *testing.T) {
	fx := newCampusFixture(t)
	svc := NewAuthService(racingUserStore{fx.store}, nil, nil, AuthConfig{AccessTokenSecret: "test-secret", Issuer: "campus-nav-api"})

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "Student1", Password: "secret1"})
	appErr := assertStatus(t, err, http.StatusConflict)
	assert.Equal(t, "username already exists", appErr.Message)
}
