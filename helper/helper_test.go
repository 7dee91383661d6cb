package helper

import (
	"context"
	"testing"
	"time"

	"cinema_reservation/config"
	"cinema_reservation/model"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(RoleCustomer, CapBookingsOwn))
	assert.False(t, Can(RoleCustomer, CapBookingsManage))
	assert.False(t, Can(RoleCustomer, CapBookingsOwn, CapCatalogWrite))

	assert.True(t, Can(RoleEmployee, CapReviewsModerate, CapIncidentsManage))
	assert.False(t, Can(RoleEmployee, CapCatalogWrite))

	assert.True(t, Can(RoleAdmin, CapCatalogWrite, CapUsersManage))
	assert.False(t, Can(RoleAdmin, CapUsersPromote))

	assert.True(t, Can(RoleSuperadmin, CapUsersPromote))
	assert.False(t, Can(Role("guest"), CapBookingsOwn))
	assert.False(t, Role("guest").Valid())
}

func TestTokensRoundTrip(t *testing.T) {
	ConfigureTokens(config.JWTSettings{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})

	user := &model.User{DTO: model.DTO{ID: 7}, Email: "ada@example.com", Role: "admin"}
	tokens, err := GenerateTokens(user)
	require.NoError(t, err)

	claim, err := ParseAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claim.UserId)
	assert.Equal(t, "ada@example.com", claim.Email)
	assert.Equal(t, "admin", claim.Role)

	_, err = ParseAccessToken(tokens.RefreshToken)
	assert.Error(t, err, "refresh token must not pass as access token")

	claim, err = ParseRefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claim.UserId)
}

func TestTokenWrongSecret(t *testing.T) {
	ConfigureTokens(config.JWTSettings{Secret: "one", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	token, err := GenerateAccessToken(model.TokenClaim{UserId: 1})
	require.NoError(t, err)

	ConfigureTokens(config.JWTSettings{Secret: "two", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	ConfigureTokens(config.JWTSettings{Secret: "s", AccessTTL: -time.Minute, RefreshTTL: time.Hour})
	token, err := GenerateAccessToken(model.TokenClaim{UserId: 1})
	require.NoError(t, err)
	_, err = ParseAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret-pass", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestSeatLabels(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, SeatLabels("ab", 2))
	assert.Empty(t, SeatLabels("", 3))
	assert.Empty(t, SeatLabels("A", 0))
}

func TestToCents(t *testing.T) {
	cents, err := ToCents(12.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), cents)

	cents, err = ToCents(0.29)
	require.NoError(t, err)
	assert.Equal(t, int64(29), cents)

	_, err = ToCents(0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ToCents(-3)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMockGateway(t *testing.T) {
	gw := &MockGateway{Currency: "EUR"}
	intent, err := gw.CreateIntent(context.Background(), 18, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), intent.Amount)
	assert.Equal(t, "eur", intent.Currency)
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, "mock", gw.Name())
}

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	_, err := NewStripeGateway("", "eur")
	assert.Error(t, err)
}

func TestSignUpload(t *testing.T) {
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	first, err := SignUpload(cld, "movies", now)
	require.NoError(t, err)
	assert.Equal(t, "demo", first.CloudName)
	assert.Equal(t, "key", first.APIKey)
	assert.Equal(t, int64(1700000000), first.Timestamp)
	assert.NotEmpty(t, first.Signature)

	second, err := SignUpload(cld, "movies", now)
	require.NoError(t, err)
	assert.Equal(t, first.Signature, second.Signature)

	other, err := SignUpload(cld, "posters", now)
	require.NoError(t, err)
	assert.NotEqual(t, first.Signature, other.Signature)
}

func TestMovieCacheDisabled(t *testing.T) {
	cache := NewMovieCache(nil, 0)
	assert.False(t, cache.Enabled())

	ctx := context.Background()
	cache.Set(ctx, "page=1", []byte("[]"))
	_, ok := cache.Get(ctx, "page=1")
	assert.False(t, ok)
	cache.Invalidate(ctx)
}

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/posters/alien.jpg": "posters/alien",
		"https://res.cloudinary.com/demo/image/upload/posters/alien.png":       "posters/alien",
		"https://res.cloudinary.com/demo/image/upload/alien.webp":              "alien",
		"https://img.example.com/alien.jpg":                                    "",
		"":                                                                     "",
	}
	for url, want := range cases {
		assert.Equal(t, want, ExtractPublicID(url), url)
	}
}
