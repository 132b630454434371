// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Amount is a 256 bit quantity written in decimal or 0x prefixed hex.
type Amount uint256.Int

func NewAmount(v *uint256.Int) *Amount {
	return (*Amount)(new(uint256.Int).Set(v))
}

// Int returns a copy, zero for nil.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set((*uint256.Int)(a))
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var (
		v   *uint256.Int
		err error
	)
	s := strings.ReplaceAll(node.Value, "_", "")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", node.Line, node.Value)
	}
	*a = Amount(*v)
	return nil
}

func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().Dec(), nil
}
