package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/bakehouse/internal/config"
	"github.com/mamadbah2/bakehouse/internal/domain/errs"
	"github.com/mamadbah2/bakehouse/internal/domain/models"
)

type fakeStore struct {
	users      map[primitive.ObjectID]*models.User
	byUsername map[string]primitive.ObjectID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[primitive.ObjectID]*models.User{},
		byUsername: map[string]primitive.ObjectID{},
	}
}

func (f *fakeStore) InsertUser(_ context.Context, user *models.User) error {
	if _, exists := f.byUsername[user.Username]; exists {
		return errs.Validationf("User already exists")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	f.users[user.ID] = &copied
	f.byUsername[user.Username] = user.ID
	return nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	id, ok := f.byUsername[username]
	if !ok {
		return nil, errs.NotFound("User", username)
	}
	copied := *f.users[id]
	return &copied, nil
}

func (f *fakeStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("User", id.Hex())
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("User", id.Hex())
	}
	for key, value := range fields {
		switch key {
		case "name":
			user.Name = value.(string)
		case "email":
			user.Email = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "address":
			user.Address = value.(string)
		}
	}
	copied := *user
	return &copied, nil
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "unit-test-secret",
		TokenTTL:  24,
		AdminCode: "BAKER2024",
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "jordan",
		Password: "secret123",
		Name:     "Jordan Baker",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role, "role defaults to staff")
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	loggedIn, loginToken, err := svc.Login(context.Background(), "jordan", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)

	authed, err := svc.Authenticate(context.Background(), loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	_, _, err := svc.Register(context.Background(), RegisterInput{Password: "short"})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Please provide a username")
	assert.Contains(t, err.Error(), "Password must be at least 6 characters")
	assert.Contains(t, err.Error(), "Please provide a name")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	in := RegisterInput{Username: "jordan", Password: "secret123", Name: "Jordan Baker"}
	_, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestRegisterAdminRequiresCode(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	in := RegisterInput{Username: "boss", Password: "secret123", Name: "Boss", Role: models.RoleAdmin}

	_, _, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
	assert.Equal(t, "Invalid admin code", err.Error())

	in.AdminCode = "BAKER2024"
	user, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "jordan", Password: "secret123", Name: "Jordan Baker",
	})
	require.NoError(t, err)

	// Unknown usernames and wrong passwords must read the same.
	_, _, unknownErr := svc.Login(context.Background(), "nobody", "secret123")
	require.Error(t, unknownErr)
	_, _, wrongErr := svc.Login(context.Background(), "jordan", "wrongpass")
	require.Error(t, wrongErr)

	assert.True(t, errs.IsUnauthorized(unknownErr))
	assert.True(t, errs.IsUnauthorized(wrongErr))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "some-other-secret"
	other := NewService(store, otherCfg, nil)

	_, token, err := other.Register(context.Background(), RegisterInput{
		Username: "jordan", Password: "secret123", Name: "Jordan Baker",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "jordan", Password: "secret123", Name: "Jordan Baker",
	})
	require.NoError(t, err)

	delete(store.users, user.ID)
	delete(store.byUsername, user.Username)

	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "jordan", Password: "secret123", Name: "Jordan Baker",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "Jordan B.", "jb@example.com", "555-0101", "12 Oven St")
	require.NoError(t, err)
	assert.Equal(t, "Jordan B.", updated.Name)
	assert.Equal(t, "jb@example.com", updated.Email)

	_, err = svc.UpdateProfile(context.Background(), user.ID, "", "", "", "")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
