// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	}
}

func TestNativeAsset(t *testing.T) {
	assert.True(t, NativeAsset.IsNative())
	assert.True(t, NativeAsset.IsZero())
	assert.False(t, BytesToAddress([]byte("token")).IsNative())
}

func TestAddressYAML(t *testing.T) {
	var doc struct {
		Asset Address `yaml:"asset"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("asset: \"0x0000000000000000000000000000456e65726779\""), &doc))
	assert.Equal(t, BytesToAddress([]byte("Energy")), doc.Asset)
}

func TestBlake2b(t *testing.T) {
	a := Blake2b([]byte("foo"), []byte("bar"))
	b := Blake2b([]byte("foobar"))
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())
}
