package nix_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/nix"
	"go.trai.ch/kiln/internal/core/domain"
)

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) *http.Response
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req), nil
}

func newMockClient(handler func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{
		Transport: &MockRoundTripper{RoundTripFunc: handler},
	}
}

func systemResponse(system string) nix.SystemResponse {
	return nix.SystemResponse{
		FlakeInstallable: nix.FlakeInstallable{
			Ref:      nix.FlakeRef{Type: "github", Owner: "NixOS", Repo: "nixpkgs", Rev: "commit123"},
			AttrPath: "legacyPackages." + system + ".openssl_3",
		},
		Outputs: []nix.Output{
			{Name: "dev", Nar: "sha256-dev"},
			{Name: "out", Default: true, Nar: "sha256-out"},
		},
	}
}

func opensslResponse(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(nix.NixHubResponse{
		Name:    "openssl",
		Version: "3.3.2",
		Systems: map[string]nix.SystemResponse{
			"x86_64-linux":   systemResponse("x86_64-linux"),
			"aarch64-darwin": systemResponse("aarch64-darwin"),
			"i686-linux":     systemResponse("i686-linux"),
		},
	})
	require.NoError(t, err)
	return body
}

func okResponse(body []byte) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBuffer(body)),
		Header:     make(http.Header),
	}
}

func TestIndex_Lookup(t *testing.T) {
	body := opensslResponse(t)
	var calls atomic.Int32
	client := newMockClient(func(req *http.Request) *http.Response {
		calls.Add(1)
		if req.URL.String() == "https://search.devbox.sh/v2/resolve?name=openssl&version=3.3.2" {
			return okResponse(body)
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}
	})

	systems := domain.NewPlatformSet(domain.DefaultPlatforms...)
	index := nix.NewIndexWithClient(t.TempDir(), systems, client)

	pkg, err := index.Lookup(t.Context(), "openssl", "3.3.2")
	require.NoError(t, err)

	assert.Equal(t, "openssl@3.3.2", pkg.Key())
	assert.Equal(t, nix.SourceNixHub, pkg.Source)
	assert.Len(t, pkg.Systems, 2, "i686-linux is not a supported system")

	pin, err := pkg.PinFor("x86_64-linux")
	require.NoError(t, err)
	assert.Equal(t, "commit123", pin.Rev.String())
	assert.Equal(t, "legacyPackages.x86_64-linux.openssl_3", pin.AttrPath.String())
	assert.Equal(t, "sha256-out", pin.Hash.String())

	_, err = pkg.PinFor("x86_64-darwin")
	assert.ErrorContains(t, err, domain.ErrUnresolvedDependency.Error())

	// Second lookup is served from the cache.
	_, err = index.Lookup(t.Context(), "openssl", "3.3.2")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIndex_Lookup_NotFound(t *testing.T) {
	client := newMockClient(func(_ *http.Request) *http.Response {
		return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}
	})
	index := nix.NewIndexWithClient(t.TempDir(), domain.NewPlatformSet(domain.DefaultPlatforms...), client)

	_, err := index.Lookup(t.Context(), "nonexistent", "1.0.0")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNixPackageNotFound.Error())
}

func TestIndex_Lookup_APIError(t *testing.T) {
	client := newMockClient(func(_ *http.Request) *http.Response {
		return &http.Response{StatusCode: http.StatusInternalServerError, Body: http.NoBody}
	})
	index := nix.NewIndexWithClient(t.TempDir(), domain.NewPlatformSet(domain.DefaultPlatforms...), client)

	_, err := index.Lookup(t.Context(), "openssl", "3.3.2")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNixAPIRequestFailed.Error())
}

func TestIndex_Lookup_InvalidJSON(t *testing.T) {
	client := newMockClient(func(_ *http.Request) *http.Response {
		return okResponse([]byte("{not json"))
	})
	index := nix.NewIndexWithClient(t.TempDir(), domain.NewPlatformSet(domain.DefaultPlatforms...), client)

	_, err := index.Lookup(t.Context(), "openssl", "3.3.2")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNixAPIParseFailed.Error())
}

func TestIndex_Lookup_NoSupportedSystem(t *testing.T) {
	body := opensslResponse(t)
	client := newMockClient(func(_ *http.Request) *http.Response {
		return okResponse(body)
	})
	index := nix.NewIndexWithClient(t.TempDir(), domain.NewPlatformSet("riscv64-linux"), client)

	_, err := index.Lookup(t.Context(), "openssl", "3.3.2")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNixPackageNotFound.Error())
}
