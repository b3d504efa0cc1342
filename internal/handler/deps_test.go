package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uminion/internal/configs"
)

func testDeps() *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{
			PublicAssetBase: "https://assets.example.com/uminion",
		},
	}
}

func TestFullAssetURL(t *testing.T) {
	deps := testDeps()

	assert.Equal(t, "https://assets.example.com/uminion/products/p1.png", deps.FullAssetURL("products/p1.png"))
	assert.Empty(t, deps.FullAssetURL(""))
}

func TestNormalizeAssetKey(t *testing.T) {
	deps := testDeps()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare key", raw: "products/p1.png", want: "products/p1.png"},
		{name: "full public url", raw: "https://assets.example.com/uminion/products/p1.png", want: "products/p1.png"},
		{name: "leading slash", raw: "/avatars/a1.jpg", want: "avatars/a1.jpg"},
		{name: "path traversal", raw: "products/../secrets", wantErr: true},
		{name: "foreign url", raw: "https://evil.example.com/products/p1.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := deps.NormalizeAssetKey(tt.raw)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestNormalizeAvatarKey(t *testing.T) {
	deps := testDeps()

	key, customErr := deps.normalizeAvatarKey("avatars/a1.jpg")
	require.Nil(t, customErr)
	assert.Equal(t, "avatars/a1.jpg", key)

	key, customErr = deps.normalizeAvatarKey("https://assets.example.com/uminion/avatars/a1.jpg")
	require.Nil(t, customErr)
	assert.Equal(t, "avatars/a1.jpg", key)

	// Keys outside the avatar prefix are rejected: the stored key feeds the
	// replaced-avatar delete, so it must never reference a foreign object.
	for _, raw := range []string{
		"products/p1.png",
		"https://assets.example.com/uminion/products/p1.png",
		"avatars/../products/p1.png",
		"https://evil.example.com/avatars/a1.jpg",
		"",
	} {
		_, customErr := deps.normalizeAvatarKey(raw)
		assert.NotNil(t, customErr, "expected rejection for %q", raw)
	}
}

func TestValidateProductFields(t *testing.T) {
	deps := testDeps()

	key, customErr := deps.validateProductFields(ProductInput{Name: "Rare card", Price: 12.5, Image: "products/p1.png"})
	require.Nil(t, customErr)
	assert.Equal(t, "products/p1.png", key)

	key, customErr = deps.validateProductFields(ProductInput{Name: "Free item", Price: 0})
	require.Nil(t, customErr)
	assert.Empty(t, key)

	for _, input := range []ProductInput{
		{Name: "", Price: 1},
		{Name: "x", Price: -1},
		{Name: "x", Price: 1, Image: "avatars/a1.jpg"},
		{Name: "x", Price: 1, Image: "products/../../etc/passwd"},
	} {
		_, customErr := deps.validateProductFields(input)
		assert.NotNil(t, customErr)
	}
}
