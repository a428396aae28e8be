// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
)

// decodeFixedHex decodes s, an optionally 0x prefixed hex string, into out. s must encode
// exactly len(out) bytes.
func decodeFixedHex(s string, out []byte) error {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	} else if len(s) == len(out)*2+2 {
		return errors.New("invalid prefix")
	}
	if len(s) != len(out)*2 {
		return errors.New("invalid length")
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}
