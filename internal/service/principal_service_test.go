package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mkkmani/musicbackend/internal/logger"
	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
	"github.com/mkkmani/musicbackend/internal/testsupport"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrincipalService(t *testing.T, role model.Role) (*PrincipalService, *testsupport.PrincipalStoreStub, *metrics.Metrics) {
	t.Helper()
	store := testsupport.NewPrincipalStoreStub(role)
	m := metrics.New()
	svc := newPrincipalService(role, store, newTestHasher(t), newTestAuth(), m, logger.Nop())
	return svc, store, m
}

func adminRequest() model.RegisterPrincipalRequest {
	return model.RegisterPrincipalRequest{
		Name:     "A",
		Mobile:   "111",
		Email:    "a@x.com",
		Profile:  "p",
		Password: "secret",
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	svc, store, m := newTestPrincipalService(t, model.RoleAdmin)

	p, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, model.RoleAdmin, p.Role)

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.NotEqual(t, "secret", rows[0].PasswordHash)
	assert.NoError(t, svc.hasher.Verify(rows[0].PasswordHash, "secret"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("admin", metrics.OutcomeSuccess)))
}

func TestRegister_Conflict(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.RegisterPrincipalRequest)
	}{
		{"same request", func(*model.RegisterPrincipalRequest) {}},
		{"same mobile", func(r *model.RegisterPrincipalRequest) { r.Email = "other@x.com" }},
		{"same email", func(r *model.RegisterPrincipalRequest) { r.Mobile = "222" }},
		{"email differs only by case", func(r *model.RegisterPrincipalRequest) {
			r.Mobile = "222"
			r.Email = "  A@X.COM "
		}},
	}

	for _, role := range []model.Role{model.RoleStudent, model.RoleAdmin} {
		for _, tt := range tests {
			t.Run(string(role)+"/"+tt.name, func(t *testing.T) {
				svc, store, _ := newTestPrincipalService(t, role)
				_, err := svc.Register(context.Background(), adminRequest())
				require.NoError(t, err)

				req := adminRequest()
				tt.mutate(&req)
				_, err = svc.Register(context.Background(), req)
				assert.ErrorIs(t, err, ErrConflict)
				assert.Equal(t, 1, store.Writes())
			})
		}
	}
}

func TestRegister_UniqueViolationIsConflict(t *testing.T) {
	svc, store, m := newTestPrincipalService(t, model.RoleStudent)
	store.SkipExistsCheck = true

	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), adminRequest())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, store.Rows(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("student", metrics.OutcomeConflict)))
}

func TestRegister_ConcurrentDuplicatesKeepOneRow(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleStudent)
	store.SkipExistsCheck = true

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), adminRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, store.Rows(), 1)
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleStudent)
	store.Err = errors.New("connection reset")

	_, err := svc.Register(context.Background(), adminRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, 0, store.Writes())
}

func TestRegister_OverlongPasswordIsHashingError(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleStudent)
	req := adminRequest()
	req.Password = strings.Repeat("p", 80)

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrHashing)
	assert.Equal(t, 0, store.Writes())
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, m := newTestPrincipalService(t, model.RoleAdmin)
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	for _, username := range []string{"a@x.com", "A@X.com ", "111"} {
		token, p, err := svc.Login(context.Background(), model.LoginRequest{Username: username, Password: "secret"})
		require.NoError(t, err, username)
		assert.NotEmpty(t, token)
		assert.Equal(t, "A", p.Name)

		claims, err := svc.auth.VerifyToken(token, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, p.ID, claims.PrincipalID)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues("admin", metrics.OutcomeSuccess)))
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, m := newTestPrincipalService(t, model.RoleStudent)
	_, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), model.LoginRequest{Username: "a@x.com", Password: "nope"})
	_, _, unknownUser := svc.Login(context.Background(), model.LoginRequest{Username: "ghost@x.com", Password: "secret"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues("student", metrics.OutcomeRejected)))
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleStudent)
	store.Err = errors.New("connection reset")

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Username: "a@x.com", Password: "secret"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_CorruptHashIsInternal(t *testing.T) {
	store := testsupport.NewPrincipalStoreStub(model.RoleStudent)
	require.NoError(t, store.Create(context.Background(), &model.Principal{
		Name: "S", Mobile: "1", Email: "s@x.com", PasswordHash: "plaintext-by-mistake",
	}))
	svc := NewStudentService(store, newTestHasher(t), newTestAuth(), nil, logger.Nop())

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Username: "s@x.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrHashing)
}

func TestBootstrap_OnlyWhenEmpty(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleAdmin)

	created, err := svc.Bootstrap(context.Background(), adminRequest())
	require.NoError(t, err)
	assert.True(t, created)

	req := adminRequest()
	req.Email = "second@x.com"
	req.Mobile = "999"
	created, err = svc.Bootstrap(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, store.Rows(), 1)
}

func TestBootstrap_LostRaceIsNotAnError(t *testing.T) {
	svc, store, _ := newTestPrincipalService(t, model.RoleAdmin)
	store.Err = repository.ErrDuplicate

	created, err := svc.Bootstrap(context.Background(), adminRequest())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, store.Writes())
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newTestPrincipalService(t, model.RoleStudent)
	p, err := svc.Register(context.Background(), adminRequest())
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}
