package metadata

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

const sampleJSON = `{"name":"EpicLordHamburger","description":"A highly acclaimed collection of squares.","image":"data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=","attributes":[{"trait_type":"Color","value":"blue"}]}`

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(&config.RuntimeConfig{})

	tests := []struct {
		name      string
		payload   string
		wantName  string
		wantImage string
	}{
		{
			name:      "data uri",
			payload:   DataURIPrefix + base64.StdEncoding.EncodeToString([]byte(sampleJSON)),
			wantName:  "EpicLordHamburger",
			wantImage: "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=",
		},
		{
			name:      "data uri without padding",
			payload:   DataURIPrefix + base64.RawStdEncoding.EncodeToString([]byte(`{"name":"ab"}`)),
			wantName:  "ab",
			wantImage: "",
		},
		{
			name:      "bare json",
			payload:   `{"name":"Plain","image":"https://example.com/1.png"}`,
			wantName:  "Plain",
			wantImage: "https://example.com/1.png",
		},
		{
			name:      "ipfs image uses gateway",
			payload:   `{"name":"Pinned","image":"ipfs://bafy/1.png"}`,
			wantName:  "Pinned",
			wantImage: "https://ipfs.io/ipfs/bafy/1.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, image, err := d.Decode(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, meta.Name)
			assert.Equal(t, tt.wantImage, image)
		})
	}
}

func TestDecoder_Attributes(t *testing.T) {
	d := NewDecoder(&config.RuntimeConfig{})
	meta, _, err := d.Decode(sampleJSON)
	require.NoError(t, err)
	require.Len(t, meta.Attributes, 1)
	assert.Equal(t, "Color", meta.Attributes[0].TraitType)
	assert.Equal(t, "blue", meta.Attributes[0].Value)
}

func TestDecoder_Malformed(t *testing.T) {
	d := NewDecoder(&config.RuntimeConfig{})

	payloads := []string{
		"",
		"hello",
		DataURIPrefix + "!!!not-base64!!!",
		DataURIPrefix + base64.StdEncoding.EncodeToString([]byte("not json")),
		`{"name":`,
	}
	for _, p := range payloads {
		_, _, err := d.Decode(p)
		assert.ErrorIs(t, err, domain.ErrDecodeFailure, "payload %q", p)
	}
}

func TestDecoder_CustomGateway(t *testing.T) {
	d := NewDecoder(&config.RuntimeConfig{IPFSGateway: "https://gw.example"})
	_, image, err := d.Decode(`{"image":"ipfs://ipfs/cid"}`)
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/cid", image)
}

func TestDecoder_UnsupportedPayloadKeepsRunes(t *testing.T) {
	d := NewDecoder(&config.RuntimeConfig{})

	_, _, err := d.Decode(strings.Repeat("é", 45))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDecodeFailure)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), strings.Repeat("é", 40)+"...")

	assert.Equal(t, "日本語...", truncate("日本語のトークン", 3))
	assert.Equal(t, "short", truncate("short", 40))
}
