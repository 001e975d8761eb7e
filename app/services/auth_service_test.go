package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/auth"
	"github.com/andrianfauzi/warungku/pkg/storage"
	"github.com/andrianfauzi/warungku/pkg/upload"
)

func newAuthService(t *testing.T) (*services.AuthService, *storage.MemDisk) {
	t.Helper()
	config.Set("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	disk := storage.NewMemDisk()
	return services.NewAuthService(repositories.NewUserRepository(db), disk), disk
}

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Nama:        "Budi Santoso",
		Alamat:      "Jl. Merdeka 1",
		Email:       "budi@example.com",
		Password:    "rahasia123",
		PhoneNumber: "081234567890",
		Username:    "budi",
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	userID, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NotZero(t, userID)

	token, user, err := svc.Login(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, 2, user.UserLevel, "registrations default to the customer level")

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "budi", claims.Username)
	assert.Equal(t, "budi@example.com", claims.Email)
	assert.Equal(t, 2, claims.UserLevel)
}

func TestRegisterRejectsDuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	// Same email, different everything else.
	dup := registerInput()
	dup.PhoneNumber = "089999999999"
	dup.Username = "budi2"
	_, err = svc.Register(ctx, dup)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	// Same username only.
	dup = registerInput()
	dup.Email = "other@example.com"
	dup.PhoneNumber = "088888888888"
	_, err = svc.Register(ctx, dup)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "budi@example.com", "wrong")
	wrongPass := err
	_, _, err = svc.Login(ctx, "nobody@example.com", "rahasia123")
	wrongEmail := err

	assert.True(t, apperr.IsKind(wrongPass, apperr.Unauthenticated))
	assert.True(t, apperr.IsKind(wrongEmail, apperr.Unauthenticated))
	// Wrong email and wrong password must be indistinguishable.
	assert.Equal(t, wrongPass.Error(), wrongEmail.Error())
}

func TestUpdateProfileReplacesImage(t *testing.T) {
	ctx := context.Background()
	svc, disk := newAuthService(t)

	userID, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	img := upload.File{Name: "me.png", ContentType: "image/png", Data: []byte{1, 2, 3}}
	user, err := svc.UpdateProfile(ctx, userID, nil, &img)
	require.NoError(t, err)
	require.NotEmpty(t, user.ImageProfile)

	// Replacing the image removes the previous asset.
	img2 := upload.File{Name: "me2.png", ContentType: "image/png", Data: []byte{4, 5, 6}}
	user, err = svc.UpdateProfile(ctx, userID, nil, &img2)
	require.NoError(t, err)

	stored, err := disk.AllFiles(ctx, "profile")
	require.NoError(t, err)
	assert.Len(t, stored, 1, "exactly the current image remains")

	path, ok := disk.Path(user.ImageProfile)
	require.True(t, ok)
	assert.True(t, disk.Exists(ctx, path))
}

func TestUpdateProfileAlamatOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	userID, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	alamat := "Jl. Baru 99"
	user, err := svc.UpdateProfile(ctx, userID, &alamat, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jl. Baru 99", user.Alamat)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	alamat := "x"
	_, err := svc.UpdateProfile(ctx, 999, &alamat, nil)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
